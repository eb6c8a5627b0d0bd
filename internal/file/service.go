package file

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"print-order-bot/internal/pkg/config"
	"print-order-bot/internal/pkg/model"
	"sync"
	"time"
)

type Service interface {
	Download(ctx context.Context, attachment model.Attachment) (*LocalFile, error)
	Remove(file *LocalFile) error
	Sweep(maxAge time.Duration) ([]string, error)
}

// LocalFile is an attachment spooled to disk.
type LocalFile struct {
	Path string
	Name string
	Size int64
}

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

type DefaultService struct {
	cfg        *config.FileServiceCfg
	downloader Downloader
	now        func() time.Time
	mu         sync.RWMutex
}

func NewDefaultService(downloader Downloader, cfg *config.FileServiceCfg) *DefaultService {
	return &DefaultService{
		cfg:        cfg,
		downloader: downloader,
		now:        time.Now,
	}
}

// SetDownloader installs the downloader once the bot client exists.
func (d *DefaultService) SetDownloader(downloader Downloader) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.downloader = downloader
}

func (d *DefaultService) Download(ctx context.Context, attachment model.Attachment) (*LocalFile, error) {
	if attachment.TGFileID == "" {
		return nil, ErrNoTgFileID
	}
	if attachment.Size > MaxDownloadSize {
		return nil, ErrFileTooLarge
	}

	d.mu.RLock()
	downloader := d.downloader
	d.mu.RUnlock()
	if downloader == nil {
		return nil, ErrNoDownloader
	}

	filePath := filepath.Join(d.cfg.DirPath, spoolName(attachment.Name))
	dst, err := prepareFilepath(filePath)
	if err != nil {
		return nil, &ErrPrepareFilepath{Err: err}
	}
	defer dst.Close()

	body, err := downloader.DownloadFile(ctx, attachment.TGFileID)
	if err != nil {
		d.discard(filePath)
		return nil, &ErrDownloadFailed{Err: err}
	}
	defer body.Close()

	size, err := io.Copy(dst, body)
	if err != nil {
		d.discard(filePath)
		return nil, &ErrDownloadFailed{Err: err}
	}

	return &LocalFile{
		Path: filePath,
		Name: attachment.Name,
		Size: size,
	}, nil
}

func (d *DefaultService) Remove(file *LocalFile) error {
	if file == nil {
		return nil
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Sweep deletes spooled files last modified more than maxAge ago and returns
// their names.
func (d *DefaultService) Sweep(maxAge time.Duration) ([]string, error) {
	entries, err := os.ReadDir(d.cfg.DirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ErrReadDir{Err: err}
	}

	cutoff := d.now().Add(-maxAge)
	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			slog.Error("Failed to stat spooled file", "error", err, "file", entry.Name())
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(d.cfg.DirPath, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Error("Failed to remove spooled file", "error", err, "file", entry.Name())
			continue
		}
		removed = append(removed, entry.Name())
	}

	return removed, nil
}

func (d *DefaultService) discard(filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		slog.Error("Failed to remove partial download", "error", err, "path", filePath)
	}
}
