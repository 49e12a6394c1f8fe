package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// Extension of localization tables.
	Extension = ".strings"
	// LocaleFolderExtension marks a folder holding one locale's tables.
	LocaleFolderExtension = ".lproj"
)

// FileEntry represents a discovered strings file.
type FileEntry struct {
	Path   string
	Name   string // file name without extension
	Locale string
	Dir    string // folder holding the locale folders, or the file's own folder
}

// Walker traverses directories looking for strings files.
type Walker struct {
	defaultLocale string
	locales       map[string]bool
	names         map[string]bool
}

// NewWalker creates a Walker. Files outside a locale folder are assigned
// defaultLocale.
func NewWalker(defaultLocale string) *Walker {
	return &Walker{defaultLocale: defaultLocale}
}

// WithLocales restricts discovery to the given locales.
func (w *Walker) WithLocales(locales ...string) *Walker {
	w.locales = toSet(locales)
	return w
}

// WithNames restricts discovery to files with the given names (without
// extension).
func (w *Walker) WithNames(names ...string) *Walker {
	w.names = toSet(names)
	return w
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// Classify derives name, locale and table folder of a strings file path.
func (w *Walker) Classify(path string) FileEntry {
	parent := filepath.Dir(path)
	e := FileEntry{
		Path:   path,
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Locale: w.defaultLocale,
		Dir:    parent,
	}
	if folder := filepath.Base(parent); filepath.Ext(folder) == LocaleFolderExtension {
		e.Locale = strings.TrimSuffix(folder, LocaleFolderExtension)
		e.Dir = filepath.Dir(parent)
	}
	return e
}

func (w *Walker) accept(e FileEntry) bool {
	if w.names != nil && !w.names[e.Name] {
		return false
	}
	if w.locales != nil && !w.locales[e.Locale] {
		return false
	}
	return true
}

// Walk discovers all strings files under the given roots. A root may also be
// a single file. Results are sorted by path, case-insensitively.
func (w *Walker) Walk(roots ...string) ([]FileEntry, error) {
	seen := map[string]bool{}
	var entries []FileEntry

	add := func(path string) {
		if seen[path] || !strings.EqualFold(filepath.Ext(path), Extension) {
			return
		}
		seen[path] = true
		if e := w.Classify(path); w.accept(e) {
			entries = append(entries, e)
		}
	}

	for _, root := range roots {
		root, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve root path: %w", err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat root: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Error walking path")
				return nil
			}
			if !d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory: %w", err)
		}
	}

	slices.SortFunc(entries, func(a, b FileEntry) int {
		return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
	})
	log.Debug().Int("count", len(entries)).Strs("roots", roots).Msg("Discovered strings files")
	return entries, nil
}
