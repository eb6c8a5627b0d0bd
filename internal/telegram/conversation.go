package telegram

import (
	"log/slog"
	"print-order-bot/internal/pkg/model"
	"print-order-bot/internal/telegram/internal/fsm"
	"print-order-bot/internal/telegram/internal/presentation"
	"strings"

	"github.com/go-telegram/bot/models"
)

func (b *Bot) handlePresetFormat(c *fsm.ConversationContext) error {
	return b.acceptFormat(c, strings.TrimSpace(c.Input.Text))
}

func (b *Bot) handleCustomFormatToken(c *fsm.ConversationContext) error {
	c.Session.AwaitingCustomFormat = true
	return c.SendMessage(b.catalog.Get("custom_format_prompt"), presentation.RemoveKbd())
}

// handleFormatText takes any typed text as the format, whether or not the
// custom-format button was pressed first.
func (b *Bot) handleFormatText(c *fsm.ConversationContext) error {
	return b.acceptFormat(c, strings.TrimSpace(c.Input.Text))
}

func (b *Bot) acceptFormat(c *fsm.ConversationContext, format string) error {
	c.Session.PrintFormat = format
	c.Session.AwaitingCustomFormat = false
	c.Transition(fsm.StageFile)
	return c.SendMessage(b.catalog.Get("file_request"), presentation.RemoveKbd())
}

func (b *Bot) handleInvalidFormat(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("invalid_format"), b.formatKbd())
}

func (b *Bot) handleFile(c *fsm.ConversationContext) error {
	attachment := *c.Input.Attachment
	c.Session.Attachment = &attachment
	c.Session.OriginalFilename = attachment.Name
	c.Transition(fsm.StagePrintDate)
	slog.Info("Received order file", "userID", c.User.ID, "name", attachment.Name, "size", attachment.Size)
	return c.SendMessage(b.catalog.Get("file_received"), b.dateKbd(c))
}

func (b *Bot) handleUnsupportedFile(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("unsupported_file_type"), nil)
}

func (b *Bot) handlePrintDate(c *fsm.ConversationContext) error {
	c.Session.PrintDate = strings.TrimSpace(c.Input.Text)
	c.Transition(fsm.StageConfirmDate)
	return c.SendMessage(presentation.ConfirmDateMsg(b.catalog, c.Session.PrintDate), presentation.YesNoKbd())
}

func (b *Bot) handleInvalidDate(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("invalid_date"), b.dateKbd(c))
}

func (b *Bot) handleDateConfirmed(c *fsm.ConversationContext) error {
	if c.Session.PrintDate == "" {
		return b.missingData(c)
	}
	c.Transition(fsm.StageConfirmation)
	if err := c.SendMessage(b.catalog.Get("date_confirmed"), nil); err != nil {
		return err
	}
	summary := presentation.OrderSummaryMsg(b.catalog, c.Session.PrintFormat, c.Session.PrintDate, c.Session.OriginalFilename)
	return c.SendMessage(summary, presentation.ConfirmOrderKbd(b.router.Rules().ConfirmToken))
}

func (b *Bot) handleDateRejected(c *fsm.ConversationContext) error {
	if c.Session.PrintDate == "" {
		return b.missingData(c)
	}
	c.Session.PrintDate = ""
	c.Transition(fsm.StagePrintDate)
	return c.SendMessage(b.catalog.Get("choose_date_again"), b.dateKbd(c))
}

func (b *Bot) handleInvalidConfirmation(c *fsm.ConversationContext) error {
	if c.Session.PrintDate == "" {
		return b.missingData(c)
	}
	return c.SendMessage(b.catalog.Get("invalid_confirmation"), presentation.YesNoKbd())
}

// handleConfirmOrder uploads the order. The user's conversation stays frozen
// until the upload returns, and the session ends either way.
func (b *Bot) handleConfirmOrder(c *fsm.ConversationContext) error {
	session := c.Session
	if session.Attachment == nil || session.PrintDate == "" {
		return b.missingData(c)
	}

	unfreeze := c.Freeze()
	defer unfreeze()

	placed, err := b.orderService.PlaceOrder(c.Ctx, model.Order{
		Customer:         c.User,
		PrintFormat:      session.PrintFormat,
		PrintDate:        session.PrintDate,
		OriginalFilename: session.OriginalFilename,
		Attachment:       *session.Attachment,
	})
	if err != nil {
		slog.Error("Failed to place order", "error", err, "userID", c.User.ID)
		b.logBot(c.User.ID, "order failed: "+err.Error())
		c.Complete()
		return c.SendMessage(presentation.OrderErrorMsg(b.catalog, err), presentation.StartKbd())
	}

	session.UploadedFileID = placed.DriveFileID
	slog.Info("Order placed", "userID", c.User.ID, "fileID", placed.DriveFileID, "name", placed.DriveFileName)
	b.logBot(c.User.ID, "order "+placed.DriveFileID)
	c.Complete()
	return c.SendMessage(b.catalog.Get("order_confirmed"), presentation.StartKbd())
}

func (b *Bot) handlePleaseChooseOne(c *fsm.ConversationContext) error {
	return c.SendMessage(b.catalog.Get("please_choose_one"), nil)
}

func (b *Bot) missingData(c *fsm.ConversationContext) error {
	slog.Error("Conversation is missing order data", "userID", c.User.ID, "stage", c.Session.Stage.String())
	c.Complete()
	return c.SendMessage(b.catalog.Get("error_missing_data"), presentation.StartKbd())
}

func (b *Bot) formatKbd() models.ReplyMarkup {
	return presentation.FormatKbd(b.formats.Presets, b.formats.CustomToken)
}

// dateKbd offers the window as of the moment the event was received.
func (b *Bot) dateKbd(c *fsm.ConversationContext) models.ReplyMarkup {
	return presentation.DateKbd(fsm.DateWindow(c.Now))
}
