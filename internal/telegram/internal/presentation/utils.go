package presentation

import "github.com/go-telegram/bot/models"

func chunk(items []string, size int) [][]string {
	var rows [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		rows = append(rows, items[start:end])
	}
	return rows
}

func buttonRows(rows [][]string) [][]models.KeyboardButton {
	keyboard := make([][]models.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, text := range row {
			buttons = append(buttons, models.KeyboardButton{Text: text})
		}
		keyboard = append(keyboard, buttons)
	}
	return keyboard
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
