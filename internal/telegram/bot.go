package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"print-order-bot/internal/catalog"
	"print-order-bot/internal/order"
	"print-order-bot/internal/pkg/config"
	"print-order-bot/internal/telegram/internal/fsm"
	"time"

	"github.com/go-telegram/bot"
)

// ActivityLog records what users and the bot said.
type ActivityLog interface {
	Append(userID int64, message string) error
}

type Deps struct {
	OrderService order.Service
	Catalog      *catalog.Catalog
	Activity     ActivityLog
	Formats      config.FormatsCfg
	Now          func() time.Time
}

type Bot struct {
	orderService order.Service
	catalog      *catalog.Catalog
	activity     ActivityLog
	formats      config.FormatsCfg
	machine      *fsm.FSM
	router       *fsm.Router
	api          *bot.Bot
}

func NewBot(deps Deps, cfg *config.TelegramCfg) (*Bot, error) {
	b := newBot(deps)
	api, err := bot.New(cfg.Token, bot.WithDefaultHandler(b.router.HandlerFunc()))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot instance: %w", err)
	}
	b.api = api
	return b, nil
}

func newBot(deps Deps) *Bot {
	machine := fsm.NewFSM()
	rules := fsm.Rules{
		Presets:      deps.Formats.Presets,
		CustomToken:  deps.Formats.CustomToken,
		ConfirmToken: deps.Catalog.Get("confirm_order_button"),
	}
	b := &Bot{
		orderService: deps.OrderService,
		catalog:      deps.Catalog,
		activity:     deps.Activity,
		formats:      deps.Formats,
		machine:      machine,
		router:       fsm.NewRouter(machine, rules, deps.Now),
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.router.Use(b.logUserText)
	b.router.OnBusy(b.handleBusy)

	b.router.Command("start", b.handleStartCmd)
	b.router.Command("cancel", b.handleCancelCmd)
	b.router.Command("help", b.handleHelpCmd)

	fsm.Chain(b.router, fsm.StageIdle).
		Otherwise(b.handleIdle).
		Then(fsm.StageFormatChoice).
		On(fsm.ClassPresetFormat, b.handlePresetFormat).
		On(fsm.ClassCustomFormat, b.handleCustomFormatToken).
		On(fsm.ClassFreeText, b.handleFormatText).
		Otherwise(b.handleInvalidFormat).
		Then(fsm.StageFile).
		On(fsm.ClassAllowedFile, b.handleFile).
		Otherwise(b.handleUnsupportedFile).
		Then(fsm.StagePrintDate).
		On(fsm.ClassDateInWindow, b.handlePrintDate).
		Otherwise(b.handleInvalidDate).
		Then(fsm.StageConfirmDate).
		On(fsm.ClassYes, b.handleDateConfirmed).
		On(fsm.ClassNo, b.handleDateRejected).
		Otherwise(b.handleInvalidConfirmation).
		Then(fsm.StageConfirmation).
		On(fsm.ClassConfirmOrder, b.handleConfirmOrder).
		Otherwise(b.handlePleaseChooseOne)
}

// API exposes the Bot API client so the file downloader can resolve links.
func (b *Bot) API() *bot.Bot {
	return b.api
}

func (b *Bot) Start(ctx context.Context) {
	slog.Info("Started Telegram Bot")
	go b.api.Start(ctx)
}
