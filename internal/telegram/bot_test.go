package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"print-order-bot/internal/catalog"
	"print-order-bot/internal/pkg/config"
	"print-order-bot/internal/pkg/model"
	"print-order-bot/internal/telegram/internal/fsm"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 42

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
}

func (s *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, params)
	return &models.Message{}, nil
}

func (s *fakeSender) last() *bot.SendMessageParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

func (s *fakeSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, 0, len(s.sent))
	for _, p := range s.sent {
		texts = append(texts, p.Text)
	}
	return texts
}

type memoryActivity struct {
	mu       sync.Mutex
	messages []string
}

func (m *memoryActivity) Append(_ int64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

type stubOrderService struct {
	orders []model.Order
	err    error
}

func (s *stubOrderService) PlaceOrder(_ context.Context, order model.Order) (*model.PlacedOrder, error) {
	s.orders = append(s.orders, order)
	if s.err != nil {
		return nil, s.err
	}
	return &model.PlacedOrder{Order: order, DriveFileID: "drive-1", DriveFileName: "name"}, nil
}

func testNow() time.Time {
	return time.Date(2025, time.March, 15, 14, 5, 0, 0, time.UTC)
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("../../resources/messages_ru.yaml")
	require.NoError(t, err)
	return cat
}

type harness struct {
	bot      *Bot
	cat      *catalog.Catalog
	sender   *fakeSender
	activity *memoryActivity
	orders   *stubOrderService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat := loadCatalog(t)
	h := &harness{
		cat:      cat,
		sender:   &fakeSender{},
		activity: &memoryActivity{},
		orders:   &stubOrderService{},
	}
	h.bot = newBot(Deps{
		OrderService: h.orders,
		Catalog:      cat,
		Activity:     h.activity,
		Formats:      config.Default().Formats,
		Now:          testNow,
	})
	return h
}

func (h *harness) send(update *models.Update) {
	h.bot.router.Handle(context.Background(), h.sender, update)
}

func (h *harness) session() fsm.Session {
	return h.bot.machine.Session(testUserID)
}

func testUser() *models.User {
	return &models.User{ID: testUserID, FirstName: "Ivan", LastName: "Petrov", Username: "ivanp"}
}

func textMsg(text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   1,
		From: testUser(),
		Chat: models.Chat{ID: testUserID},
		Text: text,
	}}
}

func docMsg(name, mime string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   2,
		From: testUser(),
		Chat: models.Chat{ID: testUserID},
		Document: &models.Document{
			FileID:   "file-1",
			FileName: name,
			MimeType: mime,
			FileSize: 1024,
		},
	}}
}

func photoMsg() *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   3,
		From: testUser(),
		Chat: models.Chat{ID: testUserID},
		Photo: []models.PhotoSize{
			{FileID: "small", Width: 90, Height: 90},
			{FileID: "large", Width: 1280, Height: 1280},
		},
	}}
}

func pdfAttachment() *model.Attachment {
	return &model.Attachment{TGFileID: "file-1", Name: "scan.pdf", MimeType: "application/pdf", Size: 1024}
}

func TestTransitions(t *testing.T) {
	h := newHarness(t)
	cat := h.cat
	docx := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	withDate := fsm.Session{Stage: fsm.StageConfirmDate, PrintFormat: "A4", Attachment: pdfAttachment(), OriginalFilename: "scan.pdf", PrintDate: "20.03.2025"}
	complete := fsm.Session{Stage: fsm.StageConfirmation, PrintFormat: "A4", Attachment: pdfAttachment(), OriginalFilename: "scan.pdf", PrintDate: "20.03.2025"}

	tests := []struct {
		name      string
		session   fsm.Session
		update    *models.Update
		wantStage fsm.Stage
		wantText  string
		check     func(t *testing.T, s fsm.Session)
	}{
		{
			name:      "preset format",
			session:   fsm.NewSession(),
			update:    textMsg("A4"),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("file_request"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, "A4", s.PrintFormat)
			},
		},
		{
			name:      "custom format token",
			session:   fsm.NewSession(),
			update:    textMsg("Свой формат"),
			wantStage: fsm.StageFormatChoice,
			wantText:  cat.Get("custom_format_prompt"),
			check: func(t *testing.T, s fsm.Session) {
				assert.True(t, s.AwaitingCustomFormat)
			},
		},
		{
			name:      "custom format value",
			session:   fsm.Session{Stage: fsm.StageFormatChoice, AwaitingCustomFormat: true},
			update:    textMsg("30x40"),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("file_request"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, "30x40", s.PrintFormat)
				assert.False(t, s.AwaitingCustomFormat)
			},
		},
		{
			name:      "preset while awaiting custom",
			session:   fsm.Session{Stage: fsm.StageFormatChoice, AwaitingCustomFormat: true},
			update:    textMsg("A3"),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("file_request"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, "A3", s.PrintFormat)
				assert.False(t, s.AwaitingCustomFormat)
			},
		},
		{
			name:      "free text without custom token",
			session:   fsm.NewSession(),
			update:    textMsg("A5"),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("file_request"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, "A5", s.PrintFormat)
				assert.False(t, s.AwaitingCustomFormat)
			},
		},
		{
			name:      "attachment at format choice",
			session:   fsm.NewSession(),
			update:    photoMsg(),
			wantStage: fsm.StageFormatChoice,
			wantText:  cat.Get("invalid_format"),
		},
		{
			name:      "pdf document",
			session:   fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"},
			update:    docMsg("scan.pdf", "application/pdf"),
			wantStage: fsm.StagePrintDate,
			wantText:  cat.Get("file_received"),
			check: func(t *testing.T, s fsm.Session) {
				require.NotNil(t, s.Attachment)
				assert.Equal(t, "file-1", s.Attachment.TGFileID)
				assert.Equal(t, "scan.pdf", s.OriginalFilename)
			},
		},
		{
			name:      "photo",
			session:   fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"},
			update:    photoMsg(),
			wantStage: fsm.StagePrintDate,
			wantText:  cat.Get("file_received"),
			check: func(t *testing.T, s fsm.Session) {
				require.NotNil(t, s.Attachment)
				assert.Equal(t, "large", s.Attachment.TGFileID)
				assert.Equal(t, "photo_20250315_140500.jpg", s.OriginalFilename)
			},
		},
		{
			name:      "docx rejected",
			session:   fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"},
			update:    docMsg("notes.docx", docx),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("unsupported_file_type"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Nil(t, s.Attachment)
			},
		},
		{
			name:      "pdf name with wrong mime",
			session:   fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"},
			update:    docMsg("scan.pdf", "application/zip"),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("unsupported_file_type"),
		},
		{
			name:      "text at file",
			session:   fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"},
			update:    textMsg("scan.pdf"),
			wantStage: fsm.StageFile,
			wantText:  cat.Get("unsupported_file_type"),
		},
		{
			name:      "date in window",
			session:   fsm.Session{Stage: fsm.StagePrintDate, PrintFormat: "A4", Attachment: pdfAttachment(), OriginalFilename: "scan.pdf"},
			update:    textMsg("20.03.2025"),
			wantStage: fsm.StageConfirmDate,
			wantText:  cat.Format("confirm_date", map[string]string{"print_date": "20.03.2025"}),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, "20.03.2025", s.PrintDate)
			},
		},
		{
			name:      "date in the past",
			session:   fsm.Session{Stage: fsm.StagePrintDate, PrintFormat: "A4", Attachment: pdfAttachment(), OriginalFilename: "scan.pdf"},
			update:    textMsg("14.03.2025"),
			wantStage: fsm.StagePrintDate,
			wantText:  cat.Get("invalid_date"),
		},
		{
			name:      "date confirmed",
			session:   withDate,
			update:    textMsg("Да"),
			wantStage: fsm.StageConfirmation,
			wantText: cat.Format("order_summary", map[string]string{
				"print_format": "A4",
				"print_date":   "20.03.2025",
				"file_name":    "scan.pdf",
			}),
		},
		{
			name:      "date rejected",
			session:   withDate,
			update:    textMsg("нет"),
			wantStage: fsm.StagePrintDate,
			wantText:  cat.Get("choose_date_again"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Empty(t, s.PrintDate)
			},
		},
		{
			name:      "invalid date confirmation",
			session:   withDate,
			update:    textMsg("может быть"),
			wantStage: fsm.StageConfirmDate,
			wantText:  cat.Get("invalid_confirmation"),
		},
		{
			name:      "confirm date without date",
			session:   fsm.Session{Stage: fsm.StageConfirmDate, PrintFormat: "A4"},
			update:    textMsg("Да"),
			wantStage: fsm.StageIdle,
			wantText:  cat.Get("error_missing_data"),
		},
		{
			name:      "confirm order",
			session:   complete,
			update:    textMsg(cat.Get("confirm_order_button")),
			wantStage: fsm.StageIdle,
			wantText:  cat.Get("order_confirmed"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, fsm.Session{}, s)
			},
		},
		{
			name:      "confirm order without attachment",
			session:   fsm.Session{Stage: fsm.StageConfirmation, PrintDate: "20.03.2025"},
			update:    textMsg(cat.Get("confirm_order_button")),
			wantStage: fsm.StageIdle,
			wantText:  cat.Get("error_missing_data"),
		},
		{
			name:      "anything else at confirmation",
			session:   complete,
			update:    textMsg("ok"),
			wantStage: fsm.StageConfirmation,
			wantText:  cat.Get("please_choose_one"),
		},
		{
			name:      "idle input",
			session:   fsm.Session{},
			update:    textMsg("A4"),
			wantStage: fsm.StageIdle,
			wantText:  cat.Get("start_hint"),
		},
		{
			name:      "cancel",
			session:   complete,
			update:    textMsg("/cancel"),
			wantStage: fsm.StageIdle,
			wantText:  cat.Get("cancel_message"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, fsm.Session{}, s)
			},
		},
		{
			name:      "start",
			session:   complete,
			update:    textMsg("/start"),
			wantStage: fsm.StageFormatChoice,
			wantText:  cat.Get("format_choice_prompt"),
			check: func(t *testing.T, s fsm.Session) {
				assert.Equal(t, fsm.NewSession(), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.bot.machine.SetSession(testUserID, tt.session)

			h.send(tt.update)

			last := h.sender.last()
			require.NotNil(t, last)
			assert.Equal(t, tt.wantText, last.Text)
			assert.Equal(t, testUserID, last.ChatID)
			s := h.session()
			assert.Equal(t, tt.wantStage, s.Stage)
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestStartIsIdempotentFromEveryStage(t *testing.T) {
	stages := []fsm.Stage{
		fsm.StageIdle,
		fsm.StageFormatChoice,
		fsm.StageFile,
		fsm.StagePrintDate,
		fsm.StageConfirmDate,
		fsm.StageConfirmation,
	}
	for _, stage := range stages {
		t.Run(stage.String(), func(t *testing.T) {
			h := newHarness(t)
			h.bot.machine.SetSession(testUserID, fsm.Session{
				Stage:                stage,
				PrintFormat:          "A2",
				AwaitingCustomFormat: true,
				Attachment:           pdfAttachment(),
				OriginalFilename:     "scan.pdf",
				PrintDate:            "20.03.2025",
			})

			h.send(textMsg("/start"))
			first := h.session()
			h.send(textMsg("/start"))

			assert.Equal(t, fsm.NewSession(), first)
			assert.Equal(t, first, h.session())
			assert.Equal(t, []string{h.cat.Get("format_choice_prompt"), h.cat.Get("format_choice_prompt")}, h.sender.texts())
		})
	}
}

func TestStartOffersFormatKeyboard(t *testing.T) {
	h := newHarness(t)

	h.send(textMsg("/start"))

	kbd, ok := h.sender.last().ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kbd.Keyboard, 3)
	assert.Equal(t, "Свой формат", kbd.Keyboard[2][1].Text)
}

func TestDatePromptOffersThirtyDates(t *testing.T) {
	h := newHarness(t)
	h.bot.machine.SetSession(testUserID, fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"})

	h.send(docMsg("scan.pdf", "application/pdf"))

	kbd, ok := h.sender.last().ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kbd.Keyboard, fsm.DateWindowDays)
	assert.Equal(t, "15.03.2025", kbd.Keyboard[0][0].Text)
	assert.Equal(t, "13.04.2025", kbd.Keyboard[fsm.DateWindowDays-1][0].Text)
}

func TestCancelIsLogged(t *testing.T) {
	h := newHarness(t)

	h.send(textMsg("/start"))
	h.send(textMsg("/cancel"))

	assert.Equal(t, []string{
		"User: /start",
		"User: /cancel",
		"Bot: " + h.cat.Get("cancel_message"),
	}, h.activity.messages)
	_, removes := h.sender.last().ReplyMarkup.(*models.ReplyKeyboardRemove)
	assert.True(t, removes)
}

func TestCancelFromEveryStage(t *testing.T) {
	stages := []fsm.Stage{
		fsm.StageFormatChoice,
		fsm.StageFile,
		fsm.StagePrintDate,
		fsm.StageConfirmDate,
		fsm.StageConfirmation,
	}
	for _, stage := range stages {
		t.Run(stage.String(), func(t *testing.T) {
			h := newHarness(t)
			h.bot.machine.SetSession(testUserID, fsm.Session{
				Stage:            stage,
				PrintFormat:      "A4",
				Attachment:       pdfAttachment(),
				OriginalFilename: "scan.pdf",
				PrintDate:        "20.03.2025",
			})

			h.send(textMsg("/cancel"))

			assert.Equal(t, fsm.Session{}, h.session())
			assert.Equal(t, h.cat.Get("cancel_message"), h.sender.last().Text)
			assert.Equal(t, []string{
				"User: /cancel",
				"Bot: " + h.cat.Get("cancel_message"),
			}, h.activity.messages)
			assert.Empty(t, h.orders.orders)
		})
	}
}

func TestCancelWhenIdle(t *testing.T) {
	h := newHarness(t)

	h.send(textMsg("/cancel"))

	assert.Equal(t, h.cat.Get("cancel_message"), h.sender.last().Text)
	assert.Equal(t, fsm.StageIdle, h.session().Stage)
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	h := newHarness(t)
	before := fsm.Session{Stage: fsm.StagePrintDate, PrintFormat: "A4", Attachment: pdfAttachment(), OriginalFilename: "scan.pdf"}
	h.bot.machine.SetSession(testUserID, before)

	h.send(textMsg("/foo"))

	assert.Empty(t, h.sender.texts())
	assert.Empty(t, h.activity.messages)
	assert.Equal(t, before, h.session())
}

func TestHelp(t *testing.T) {
	h := newHarness(t)
	h.bot.machine.SetSession(testUserID, fsm.Session{Stage: fsm.StageFile, PrintFormat: "A4"})

	h.send(textMsg("/help"))

	assert.Equal(t, h.cat.Get("help"), h.sender.last().Text)
	assert.Equal(t, fsm.StageFile, h.session().Stage)
}

func TestOrderFailureEndsConversation(t *testing.T) {
	h := newHarness(t)
	h.orders.err = errors.New("drive unavailable")
	h.bot.machine.SetSession(testUserID, fsm.Session{
		Stage:            fsm.StageConfirmation,
		PrintFormat:      "A4",
		Attachment:       pdfAttachment(),
		OriginalFilename: "scan.pdf",
		PrintDate:        "20.03.2025",
	})

	h.send(textMsg(h.cat.Get("confirm_order_button")))

	uploadErr := h.cat.Format("file_upload_error", map[string]string{"error_message": "drive unavailable"})
	assert.Equal(t, h.cat.Format("order_error", map[string]string{"error_message": uploadErr}), h.sender.last().Text)
	assert.Equal(t, fsm.Session{}, h.session())
	assert.Contains(t, h.activity.messages, "Bot: order failed: drive unavailable")
}

func TestOrderCarriesCustomer(t *testing.T) {
	h := newHarness(t)
	h.bot.machine.SetSession(testUserID, fsm.Session{
		Stage:            fsm.StageConfirmation,
		Attachment:       pdfAttachment(),
		OriginalFilename: "scan.pdf",
		PrintDate:        "20.03.2025",
	})

	h.send(textMsg(h.cat.Get("confirm_order_button")))

	require.Len(t, h.orders.orders, 1)
	placed := h.orders.orders[0]
	assert.Equal(t, model.Customer{ID: testUserID, FirstName: "Ivan", LastName: "Petrov", Username: "ivanp"}, placed.Customer)
	assert.Equal(t, "file-1", placed.Attachment.TGFileID)
	assert.Contains(t, h.activity.messages, "Bot: order drive-1")
}
