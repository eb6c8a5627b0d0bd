package presentation

import (
	"github.com/go-telegram/bot/models"
)

const (
	YesText = "Да"
	NoText  = "Нет"
)

// FormatKbd lays the presets and the custom-format token out two per row.
func FormatKbd(presets []string, customToken string) *models.ReplyKeyboardMarkup {
	buttons := make([]string, 0, len(presets)+1)
	buttons = append(buttons, presets...)
	buttons = append(buttons, customToken)
	return oneTimeKbd(chunk(buttons, 2))
}

// DateKbd offers one date per row.
func DateKbd(dates []string) *models.ReplyKeyboardMarkup {
	return oneTimeKbd(chunk(dates, 1))
}

func YesNoKbd() *models.ReplyKeyboardMarkup {
	return oneTimeKbd([][]string{{YesText, NoText}})
}

func ConfirmOrderKbd(confirmText string) *models.ReplyKeyboardMarkup {
	return oneTimeKbd([][]string{{confirmText}})
}

// StartKbd stays on screen after the conversation ends.
func StartKbd() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:       buttonRows([][]string{{"/start"}}),
		ResizeKeyboard: true,
	}
}

func RemoveKbd() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}

func oneTimeKbd(rows [][]string) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:        buttonRows(rows),
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
