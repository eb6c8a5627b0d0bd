package telegram

import (
	"print-order-bot/internal/telegram/internal/fsm"
	"print-order-bot/internal/telegram/internal/presentation"
)

func (b *Bot) handleStartCmd(c *fsm.ConversationContext) error {
	c.Start()
	return c.SendMessage(b.catalog.Get("format_choice_prompt"), b.formatKbd())
}

func (b *Bot) handleCancelCmd(c *fsm.ConversationContext) error {
	c.Complete()
	text := b.catalog.Get("cancel_message")
	b.logBot(c.User.ID, text)
	return c.SendMessage(text, presentation.RemoveKbd())
}

func (b *Bot) handleHelpCmd(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("help"), nil)
}

func (b *Bot) handleIdle(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("start_hint"), presentation.StartKbd())
}

func (b *Bot) handleBusy(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("pending_upload"), nil)
}
