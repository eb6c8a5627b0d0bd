package fsm

import (
	"print-order-bot/internal/pkg/model"
	"print-order-bot/internal/telegram/internal/media"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
)

// ParseCommand reports the command name of "/name" or "/name@bot args".
func ParseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text)[0][1:]
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

func ParseInput(msg *models.Message, now time.Time) Input {
	in := Input{Text: msg.Text}
	in.Attachment, in.Kind = media.Extract(msg, now)
	return in
}

func CustomerFromUser(user *models.User) model.Customer {
	if user == nil {
		return model.Customer{}
	}
	return model.Customer{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
}
