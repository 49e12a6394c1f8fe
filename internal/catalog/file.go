// Package catalog loads strings files from disk and groups them into tables,
// one table per file name across all locales.
package catalog

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"strings-toolkit/internal/document"
	"strings-toolkit/internal/filewalker"
)

// WriteHook runs before a file is overwritten.
type WriteHook func(path string) error

// File is one parsed strings file.
type File struct {
	filewalker.FileEntry
	doc         *document.Document
	beforeWrite WriteHook
}

// Load reads and parses the file described by entry.
func Load(entry filewalker.FileEntry, opts document.Options) (*File, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	doc, err := document.Parse(string(data), opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", entry.Path, err)
	}
	return &File{FileEntry: entry, doc: doc}, nil
}

func (f *File) Doc() *document.Document {
	return f.doc
}

// Save writes the file if the document changed or force is set. It reports
// whether anything was written.
func (f *File) Save(force bool) (bool, error) {
	if !force && !f.doc.Changed() {
		return false, nil
	}
	if f.beforeWrite != nil {
		if err := f.beforeWrite(f.Path); err != nil {
			return false, fmt.Errorf("prepare %s: %w", f.Path, err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(f.doc.Compose()), 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", f.Path, err)
	}
	f.doc.MarkSaved()
	log.Info().Str("file", f.Path).Int("keys", f.doc.Len()).Msg("Saved strings file")
	return true, nil
}
