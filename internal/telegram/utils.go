package telegram

import (
	"log/slog"
	"print-order-bot/internal/telegram/internal/fsm"
)

// logUserText records every text message before it is handled.
func (b *Bot) logUserText(next fsm.HandlerFunc) fsm.HandlerFunc {
	return func(c *fsm.ConversationContext) error {
		if c.Input.Text != "" {
			if err := b.activity.Append(c.User.ID, "User: "+c.Input.Text); err != nil {
				slog.Error("Failed to append activity log", "error", err, "userID", c.User.ID)
			}
		}
		return next(c)
	}
}

func (b *Bot) logBot(userID int64, text string) {
	if err := b.activity.Append(userID, "Bot: "+text); err != nil {
		slog.Error("Failed to append activity log", "error", err, "userID", userID)
	}
}
