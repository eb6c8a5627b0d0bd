package fsm

import (
	"context"
	"print-order-bot/internal/pkg/model"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ConversationContext struct {
	Ctx     context.Context
	Sender  Sender
	Update  *models.Update
	User    model.Customer
	ChatID  int64
	Input   Input
	Class   Class
	Now     time.Time
	Session *Session
	state   *userState
}

func (c *ConversationContext) SendMessage(text string, markup models.ReplyMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:      c.ChatID,
		Text:        text,
		ReplyMarkup: markup,
	}
	_, err := c.Sender.SendMessage(c.Ctx, params)
	return err
}

func (c *ConversationContext) Transition(nextStage Stage) {
	c.Session.Stage = nextStage
}

// Start discards whatever was collected and opens a new conversation.
func (c *ConversationContext) Start() {
	*c.Session = NewSession()
}

func (c *ConversationContext) Complete() {
	*c.Session = Session{}
}

// Freeze marks the user as busy until the returned func is called. Events
// arriving meanwhile go to the busy handler.
func (c *ConversationContext) Freeze() func() {
	if c.state == nil {
		return func() {}
	}
	c.state.frozen.Store(true)
	return func() { c.state.frozen.Store(false) }
}
