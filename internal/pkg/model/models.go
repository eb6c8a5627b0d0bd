package model

import (
	"strconv"
	"strings"
	"time"
)

// Customer is the Telegram user placing an order.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Mention is the handle when the user has one, otherwise a stable tg:// link.
func (c Customer) Mention() string {
	if c.Username != "" {
		return "@" + c.Username
	}
	return "tg://user?id=" + strconv.FormatInt(c.ID, 10)
}

// Attachment references a file still hosted by Telegram.
type Attachment struct {
	TGFileID string
	Name     string
	MimeType string
	Size     int64
}

type Order struct {
	Customer         Customer
	PrintFormat      string
	PrintDate        string
	OriginalFilename string
	Attachment       Attachment
}

type PlacedOrder struct {
	Order
	DriveFileName string
	DriveFileID   string
	CreatedAt     time.Time
}
