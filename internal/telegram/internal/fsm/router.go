package fsm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Sender is the part of the Bot API the conversation talks through.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type HandlerFunc func(c *ConversationContext) error

type Middleware func(next HandlerFunc) HandlerFunc

type Router struct {
	fsm        *FSM
	rules      Rules
	now        func() time.Time
	commands   map[string]HandlerFunc
	handlers   map[Stage]map[Class]HandlerFunc
	fallbacks  map[Stage]HandlerFunc
	busy       HandlerFunc
	middleware []Middleware
	mu         *sync.RWMutex
}

func NewRouter(fsm *FSM, rules Rules, now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{
		fsm:       fsm,
		rules:     rules,
		now:       now,
		commands:  make(map[string]HandlerFunc),
		handlers:  make(map[Stage]map[Class]HandlerFunc),
		fallbacks: make(map[Stage]HandlerFunc),
		mu:        &sync.RWMutex{},
	}
}

func (r *Router) Rules() Rules {
	return r.rules
}

// Command registers a handler for /name. Commands take priority over the
// conversation stage.
func (r *Router) Command(name string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = handler
}

func (r *Router) On(stage Stage, class Class, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers[stage] == nil {
		r.handlers[stage] = make(map[Class]HandlerFunc)
	}
	r.handlers[stage][class] = handler
}

// Fallback handles every class of the stage that has no handler of its own.
func (r *Router) Fallback(stage Stage, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[stage] = handler
}

// OnBusy handles events that arrive while the user's order is being uploaded.
func (r *Router) OnBusy(handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = handler
}

func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// Route picks the handler for an event. A nil result means the event is
// dropped, which is the case for unregistered commands.
func (r *Router) Route(stage Stage, in Input, now time.Time) (HandlerFunc, Class) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := ParseCommand(in.Text); ok {
		return r.commands[name], ClassUnknown
	}

	if stage == StageIdle {
		return r.fallbacks[stage], ClassUnknown
	}

	class := Classify(stage, in, r.rules, now)
	if handler, ok := r.handlers[stage][class]; ok {
		return handler, class
	}
	return r.fallbacks[stage], class
}

func (r *Router) wrap(handler HandlerFunc) HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	return handler
}

// Handle runs one update through the conversation. Updates without a message
// or sender are ignored.
func (r *Router) Handle(ctx context.Context, sender Sender, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	userID := msg.From.ID
	now := r.now()
	state := r.fsm.getOrCreate(userID)

	c := &ConversationContext{
		Ctx:    ctx,
		Sender: sender,
		Update: update,
		User:   CustomerFromUser(msg.From),
		ChatID: msg.Chat.ID,
		Input:  ParseInput(msg, now),
		Now:    now,
		state:  state,
	}

	if state.frozen.Load() {
		r.mu.RLock()
		busy := r.busy
		r.mu.RUnlock()
		if busy == nil {
			return
		}
		c.Session = &Session{}
		if err := r.wrap(busy)(c); err != nil {
			slog.Error("Failed to handle update", "error", err, "user_id", userID)
		}
		return
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	c.Session = &state.session
	handler, class := r.Route(state.session.Stage, c.Input, now)
	if handler == nil {
		return
	}
	c.Class = class

	if err := r.wrap(handler)(c); err != nil {
		slog.Error("Failed to handle update", "error", err, "user_id", userID, "stage", c.Session.Stage.String())
	}
}

func (r *Router) HandlerFunc() bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		r.Handle(ctx, b, update)
	}
}
