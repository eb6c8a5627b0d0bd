package file

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MaxDownloadSize is the Bot API limit for getFile downloads.
const MaxDownloadSize = 20 * 1024 * 1024

type Downloader interface {
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// fileLinker is the part of *bot.Bot the downloader needs.
type fileLinker interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type TelegramDownloader struct {
	api    fileLinker
	client *http.Client
}

func NewTelegramDownloader(api fileLinker, client *http.Client) Downloader {
	return &TelegramDownloader{api: api, client: client}
}

func (d *TelegramDownloader) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	file, err := d.api.GetFile(ctx, &bot.GetFileParams{
		FileID: fileID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if file.FileSize > MaxDownloadSize {
		return nil, ErrFileTooLarge
	}

	link := d.api.FileDownloadLink(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &ErrBadStatus{Status: resp.Status}
	}

	return resp.Body, nil
}
