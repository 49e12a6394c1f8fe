package catalog

import (
	"errors"
	"fmt"
	"strings"

	"strings-toolkit/internal/filewalker"
)

var (
	ErrMissingSeparator = errors.New("missing ':' separator")
	ErrEmptyFilename    = errors.New("empty file name")
	ErrEmptyKey         = errors.New("empty key")
)

// ParseFileKey splits a "File.strings:key" reference. The extension is
// optional and stripped. Everything after the first ':' is the key, kept
// verbatim.
func ParseFileKey(s string) (file, key string, err error) {
	file, key, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", fmt.Errorf("file key %q: %w", s, ErrMissingSeparator)
	}
	file = strings.TrimSuffix(strings.TrimSpace(file), filewalker.Extension)
	if file == "" {
		return "", "", fmt.Errorf("file key %q: %w", s, ErrEmptyFilename)
	}
	if key == "" {
		return "", "", fmt.Errorf("file key %q: %w", s, ErrEmptyKey)
	}
	return file, key, nil
}

// FormatFileKey is the inverse of ParseFileKey.
func FormatFileKey(file, key string) string {
	return file + ":" + key
}
