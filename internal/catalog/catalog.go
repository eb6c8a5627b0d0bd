package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("message catalog is empty")

// Catalog maps message keys to user-facing text. It is immutable after Load.
type Catalog struct {
	messages map[string]string
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ErrLoad{Path: path, Err: err}
	}
	return Parse(raw, path)
}

func Parse(raw []byte, source string) (*Catalog, error) {
	var messages map[string]string
	if err := yaml.Unmarshal(raw, &messages); err != nil {
		return nil, &ErrLoad{Path: source, Err: err}
	}
	if len(messages) == 0 {
		return nil, &ErrLoad{Path: source, Err: ErrEmptyCatalog}
	}
	return &Catalog{messages: messages}, nil
}

// Get never fails: an unknown key is logged and rendered as a visible
// placeholder so the conversation can carry on.
func (c *Catalog) Get(key string) string {
	msg, ok := c.messages[key]
	if !ok {
		slog.Error("Message key not found in catalog", "key", key)
		return fmt.Sprintf("Сообщение с ключом '%s' не найдено.", key)
	}
	return msg
}

// Format fills {name} placeholders of the template stored under key.
func (c *Catalog) Format(key string, args map[string]string) string {
	msg := c.Get(key)
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for name, value := range args {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

type ErrLoad struct {
	Path string
	Err  error
}

func (e *ErrLoad) Error() string {
	return fmt.Sprintf("failed to load message catalog %s: %s", e.Path, e.Err)
}

func (e *ErrLoad) Unwrap() error {
	return e.Err
}
