package fsm

import "print-order-bot/internal/pkg/model"

type Stage int

const (
	StageIdle Stage = iota
	StageFormatChoice
	StageFile
	StagePrintDate
	StageConfirmDate
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFormatChoice:
		return "format_choice"
	case StageFile:
		return "file"
	case StagePrintDate:
		return "print_date"
	case StageConfirmDate:
		return "confirm_date"
	case StageConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// Session is everything collected during one conversation. StageIdle with
// zero fields means there is no conversation.
type Session struct {
	Stage                Stage
	PrintFormat          string
	AwaitingCustomFormat bool
	Attachment           *model.Attachment
	OriginalFilename     string
	PrintDate            string
	UploadedFileID       string
}

func NewSession() Session {
	return Session{Stage: StageFormatChoice}
}
