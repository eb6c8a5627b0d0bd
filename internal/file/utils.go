package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func prepareFilepath(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); err == nil {
		return nil, ErrFileExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return os.Create(filePath)
}

// spoolName keeps the extension and a readable stem so leftovers in the
// spool directory can be identified by hand.
func spoolName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	stem := slug.Make(strings.TrimSuffix(original, filepath.Ext(original)))
	if stem == "" {
		stem = "file"
	}
	return fmt.Sprintf("%s_%s%s", uuid.NewString(), stem, ext)
}
