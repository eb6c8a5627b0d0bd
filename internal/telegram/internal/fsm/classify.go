package fsm

import (
	"print-order-bot/internal/pkg/model"
	"print-order-bot/internal/telegram/internal/media"
	"slices"
	"strings"
	"time"
)

// DateWindowDays is how many consecutive days, today included, are offered.
const DateWindowDays = 30

const DateLayout = "02.01.2006"

type Class int

const (
	ClassUnknown Class = iota
	ClassPresetFormat
	ClassCustomFormat
	ClassFreeText
	ClassAllowedFile
	ClassUnsupportedFile
	ClassDateInWindow
	ClassYes
	ClassNo
	ClassConfirmOrder
)

// Rules are the configurable tokens the classifier matches against.
type Rules struct {
	Presets      []string
	CustomToken  string
	ConfirmToken string
}

type Input struct {
	Text       string
	Attachment *model.Attachment
	Kind       media.Kind
}

// Classify maps the input to a class for the given stage. It has no side
// effects; the date window is derived from now.
func Classify(stage Stage, in Input, rules Rules, now time.Time) Class {
	text := strings.TrimSpace(in.Text)

	switch stage {
	case StageFormatChoice:
		switch {
		case text == "":
			return ClassUnknown
		case text == rules.CustomToken:
			return ClassCustomFormat
		case slices.Contains(rules.Presets, text):
			return ClassPresetFormat
		default:
			return ClassFreeText
		}

	case StageFile:
		switch in.Kind {
		case media.KindPhoto:
			return ClassAllowedFile
		case media.KindDocument:
			if media.IsAllowedDocument(in.Attachment) {
				return ClassAllowedFile
			}
			return ClassUnsupportedFile
		default:
			return ClassUnknown
		}

	case StagePrintDate:
		if text != "" && slices.Contains(DateWindow(now), text) {
			return ClassDateInWindow
		}
		return ClassUnknown

	case StageConfirmDate:
		switch strings.ToLower(text) {
		case "да":
			return ClassYes
		case "нет":
			return ClassNo
		default:
			return ClassUnknown
		}

	case StageConfirmation:
		if text != "" && text == rules.ConfirmToken {
			return ClassConfirmOrder
		}
		return ClassUnknown
	}

	return ClassUnknown
}

// DateWindow lists DateWindowDays calendar days starting with the day of now,
// in now's location.
func DateWindow(now time.Time) []string {
	y, m, d := now.Date()
	dates := make([]string, DateWindowDays)
	for i := range dates {
		dates[i] = time.Date(y, m, d+i, 0, 0, 0, 0, now.Location()).Format(DateLayout)
	}
	return dates
}
