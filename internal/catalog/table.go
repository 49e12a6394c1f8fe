package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"strings-toolkit/internal/document"
	"strings-toolkit/internal/escape"
)

var ErrLocaleNotFound = errors.New("locale not found")

// Table is one strings file name across all of its locales.
type Table struct {
	Name  string
	Dir   string
	files map[string]*File
}

func newTable(name, dir string) *Table {
	return &Table{Name: name, Dir: dir, files: map[string]*File{}}
}

// Locales returns the table's locales in sorted order.
func (t *Table) Locales() []string {
	return slices.Sorted(maps.Keys(t.files))
}

func (t *Table) File(locale string) (*File, bool) {
	f, ok := t.files[locale]
	return f, ok
}

// Files returns the table's files ordered by locale.
func (t *Table) Files() []*File {
	out := make([]*File, 0, len(t.files))
	for _, l := range t.Locales() {
		out = append(out, t.files[l])
	}
	return out
}

// AllKeys is the sorted union of the keys of every locale.
func (t *Table) AllKeys() []escape.Text {
	seen := map[string]escape.Text{}
	for _, f := range t.files {
		for _, k := range f.doc.Keys() {
			if _, ok := seen[k.Raw()]; !ok {
				seen[k.Raw()] = k
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]escape.Text) []escape.Text {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, document.ByRaw)
	return out
}

// AbsentKeys maps each locale to the keys other locales have and it lacks.
// Locales without absent keys are omitted.
func (t *Table) AbsentKeys() map[string][]escape.Text {
	all := t.AllKeys()
	out := map[string][]escape.Text{}
	for locale, f := range t.files {
		for _, k := range all {
			if !f.doc.KeyExists(k) {
				out[locale] = append(out[locale], k)
			}
		}
	}
	return out
}

// AddAbsentKeys appends every absent key to each locale with fill as the
// value and returns the number of keys added.
func (t *Table) AddAbsentKeys(fill escape.Text) int {
	added := 0
	for locale, keys := range t.AbsentKeys() {
		doc := t.files[locale].doc
		for _, k := range keys {
			doc.SetValue(k, fill)
			added++
		}
	}
	return added
}

// SyncKeys makes every other locale hold exactly the keys of locale from:
// missing keys are added with fill, extra keys are removed.
func (t *Table) SyncKeys(from string, fill escape.Text) error {
	src, ok := t.files[from]
	if !ok {
		return fmt.Errorf("sync %s: %w: %s", t.Name, ErrLocaleNotFound, from)
	}
	keys := src.doc.Keys()
	for locale, f := range t.files {
		if locale == from {
			continue
		}
		for _, k := range keys {
			if !f.doc.KeyExists(k) {
				f.doc.SetValue(k, fill)
			}
		}
		for _, k := range f.doc.Keys() {
			if !src.doc.KeyExists(k) {
				f.doc.RemoveKey(k)
			}
		}
	}
	return nil
}

// Sort sorts the keys of every locale.
func (t *Table) Sort(caseInsensitive bool) {
	cmp := document.ByRaw
	if caseInsensitive {
		cmp = document.CaseInsensitive
	}
	for _, f := range t.files {
		f.doc.Sort(cmp)
	}
}

// Changed reports whether any locale has unsaved edits.
func (t *Table) Changed() bool {
	for _, f := range t.files {
		if f.doc.Changed() {
			return true
		}
	}
	return false
}

// Save writes every changed locale, or all of them when forced.
func (t *Table) Save(force bool) error {
	for _, f := range t.Files() {
		if _, err := f.Save(force); err != nil {
			return err
		}
	}
	return nil
}
