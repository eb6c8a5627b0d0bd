package fsm

// Chain describes the handlers of one stage fluently:
//
//	fsm.Chain(router, fsm.StageFile).
//		On(fsm.ClassAllowedFile, acceptFile).
//		Otherwise(askFile)
func Chain(router *Router, stage Stage) *ChainDefinition {
	return &ChainDefinition{
		router:  router,
		current: stage,
	}
}

type ChainDefinition struct {
	router  *Router
	current Stage
}

func (c *ChainDefinition) On(class Class, handler HandlerFunc) *ChainDefinition {
	c.router.On(c.current, class, handler)
	return c
}

func (c *ChainDefinition) Otherwise(handler HandlerFunc) *ChainDefinition {
	c.router.Fallback(c.current, handler)
	return c
}

func (c *ChainDefinition) Then(nextStage Stage) *ChainDefinition {
	c.current = nextStage
	return c
}
