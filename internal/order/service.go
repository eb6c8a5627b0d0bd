package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"print-order-bot/internal/file"
	"print-order-bot/internal/pkg/model"
	"time"
)

var ErrIncompleteOrder = errors.New("order is missing required fields")

type Uploader interface {
	Upload(ctx context.Context, name string, body io.Reader) (string, error)
}

type Service interface {
	PlaceOrder(ctx context.Context, order model.Order) (*model.PlacedOrder, error)
}

type DefaultService struct {
	files    file.Service
	uploader Uploader
	repo     Repo
	now      func() time.Time
}

func NewDefaultService(files file.Service, uploader Uploader, repo Repo) *DefaultService {
	if repo == nil {
		repo = NopRepo{}
	}
	return &DefaultService{
		files:    files,
		uploader: uploader,
		repo:     repo,
		now:      time.Now,
	}
}

// PlaceOrder downloads the attachment in full, uploads it under the generated
// name and archives the result. No step is retried.
func (d *DefaultService) PlaceOrder(ctx context.Context, order model.Order) (*model.PlacedOrder, error) {
	if order.PrintDate == "" || order.Attachment.TGFileID == "" || order.OriginalFilename == "" {
		return nil, ErrIncompleteOrder
	}
	if order.PrintFormat == "" {
		order.PrintFormat = "NoFormat"
	}

	name := BuildFileName(order)
	slog.Info("Placing order", "userID", order.Customer.ID, "name", name)

	local, err := d.files.Download(ctx, order.Attachment)
	if err != nil {
		slog.Error("Failed to download attachment", "error", err, "userID", order.Customer.ID)
		return nil, err
	}
	defer func() {
		if err := d.files.Remove(local); err != nil {
			slog.Error("Failed to remove spooled file", "error", err, "path", local.Path)
		}
	}()

	body, err := local.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open spooled file: %w", err)
	}
	defer body.Close()

	fileID, err := d.uploader.Upload(ctx, name, body)
	if err != nil {
		slog.Error("Failed to upload order file", "error", err, "userID", order.Customer.ID)
		return nil, err
	}

	placed := &model.PlacedOrder{
		Order:         order,
		DriveFileName: name,
		DriveFileID:   fileID,
		CreatedAt:     d.now(),
	}

	if err := d.repo.SaveOrder(ctx, placed); err != nil {
		slog.Error("Failed to archive order", "error", err, "fileID", fileID)
	}

	return placed, nil
}
