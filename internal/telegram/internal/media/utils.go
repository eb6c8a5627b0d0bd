package media

import (
	"fmt"
	"path/filepath"
	"print-order-bot/internal/pkg/model"
	"slices"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
)

var (
	allowedExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}
	allowedMimeTypes  = []string{"image/jpeg", "image/png", "application/pdf"}
)

type Kind int

const (
	KindNone Kind = iota
	KindDocument
	KindPhoto
)

// Extract returns the attachment carried by message. Camera photos get a
// timestamp-based name; documents without a declared name get one derived from
// their MIME type.
func Extract(message *models.Message, now time.Time) (*model.Attachment, Kind) {
	if message.Document != nil {
		fileName := message.Document.FileName
		if strings.TrimSpace(fileName) == "" {
			ext := getExtFromMIME(message.Document.MimeType)
			fileName = fmt.Sprintf("document_%s_%d%s", now.Format("20060102_150405"), message.ID, ext)
		}
		return &model.Attachment{
			TGFileID: message.Document.FileID,
			Name:     fileName,
			MimeType: message.Document.MimeType,
			Size:     message.Document.FileSize,
		}, KindDocument
	}

	if photo := LargestPhoto(message.Photo); photo != nil {
		return &model.Attachment{
			TGFileID: photo.FileID,
			Name:     PhotoFileName(now),
			MimeType: "image/jpeg",
			Size:     int64(photo.FileSize),
		}, KindPhoto
	}

	return nil, KindNone
}

// LargestPhoto picks the last size, which Telegram sends as the biggest.
func LargestPhoto(sizes []models.PhotoSize) *models.PhotoSize {
	if len(sizes) == 0 {
		return nil
	}
	return &sizes[len(sizes)-1]
}

func PhotoFileName(now time.Time) string {
	return fmt.Sprintf("photo_%s.jpg", now.Format("20060102_150405"))
}

// IsAllowedDocument requires both the extension and the declared MIME type to
// be on the allow lists.
func IsAllowedDocument(attachment *model.Attachment) bool {
	if attachment == nil {
		return false
	}
	ext := strings.ToLower(filepath.Ext(attachment.Name))
	return slices.Contains(allowedExtensions, ext) &&
		slices.Contains(allowedMimeTypes, attachment.MimeType)
}

func getExtFromMIME(mimeType string) string {
	mimeMap := map[string]string{
		"application/pdf": ".pdf",
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/gif":       ".gif",
		"image/webp":      ".webp",
	}

	if ext, ok := mimeMap[mimeType]; ok {
		return ext
	}

	parts := strings.Split(mimeType, "/")
	if len(parts) == 2 {
		return "." + parts[1]
	}

	return ".bin"
}
