package activity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Entry struct {
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Logger keeps every entry in one JSON array file. Each append rewrites the
// whole document; appends within the process are serialized, other processes
// writing the same file are not coordinated with.
type Logger struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

func (l *Logger) Append(userID int64, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return err
	}

	entries = append(entries, Entry{
		UserID:    userID,
		Timestamp: l.now(),
		Message:   message,
	})

	return l.write(entries)
}

func (l *Logger) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *Logger) read() ([]Entry, error) {
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode activity log %s: %w", l.path, err)
	}
	return entries, nil
}

func (l *Logger) write(entries []Entry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to prepare activity log dir: %w", err)
		}
	}

	if err := os.WriteFile(l.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}
	return nil
}
