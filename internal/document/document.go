// Package document is the structural parser and editor for strings tables.
//
// A Document is an ordered list of entries. Every edit replaces whole entry
// values and only renormalizes the spacing of the entries next to it, so
// everything else composes back byte for byte.
package document

import (
	"slices"
	"strings"

	"strings-toolkit/internal/entity"
	"strings-toolkit/internal/escape"
)

// Document is not safe for concurrent mutation.
type Document struct {
	opts    Options
	entries []Entry
	index   map[string]int
	changed bool
}

// New returns an empty document.
func New(opts Options) *Document {
	d := &Document{opts: opts}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.index = make(map[string]int, len(d.entries))
	for i, e := range d.entries {
		if e.Kind != KeyValueEntry {
			continue
		}
		k := e.KV.KeyText().Raw()
		if _, ok := d.index[k]; !ok {
			d.index[k] = i
		}
	}
}

func (d *Document) commit(entries []Entry) {
	d.entries = entries
	d.changed = true
	d.reindex()
}

func (d *Document) newlines() int {
	return d.opts.NewEntryNewlines
}

func (d *Document) Options() Options {
	return d.opts
}

// Compose renders the document.
func (d *Document) Compose() string {
	var b strings.Builder
	for _, e := range d.entries {
		b.WriteString(e.Text())
	}
	return b.String()
}

// Changed reports whether an edit succeeded since parsing or MarkSaved.
func (d *Document) Changed() bool {
	return d.changed
}

func (d *Document) MarkSaved() {
	d.changed = false
}

// Entries returns a copy of the entry list.
func (d *Document) Entries() []Entry {
	return slices.Clone(d.entries)
}

func (d *Document) KeyValues() []KeyValue {
	out := make([]KeyValue, 0, len(d.index))
	for _, e := range d.entries {
		if e.Kind == KeyValueEntry {
			out = append(out, e.KV)
		}
	}
	return out
}

// Keys returns the keys in document order.
func (d *Document) Keys() []escape.Text {
	out := make([]escape.Text, 0, len(d.index))
	for _, e := range d.entries {
		if e.Kind == KeyValueEntry {
			out = append(out, e.KV.KeyText())
		}
	}
	return out
}

func (d *Document) Len() int {
	return len(d.index)
}

// Header returns the file header entry, if any.
func (d *Document) Header() (Entry, bool) {
	for _, e := range d.entries {
		if e.Kind == Header {
			return e, true
		}
	}
	return Entry{}, false
}

func (d *Document) KeyExists(key escape.Text) bool {
	_, ok := d.index[key.Raw()]
	return ok
}

func (d *Document) Entry(key escape.Text) (KeyValue, bool) {
	i, ok := d.index[key.Raw()]
	if !ok {
		return KeyValue{}, false
	}
	return d.entries[i].KV, true
}

func (d *Document) Value(key escape.Text) (escape.Text, bool) {
	kv, ok := d.Entry(key)
	if !ok {
		return escape.Text{}, false
	}
	return kv.ValueText(), true
}

// Comment returns the comment text attached to key, token texts joined with
// single spaces.
func (d *Document) Comment(key escape.Text) (string, bool) {
	kv, ok := d.Entry(key)
	if !ok {
		return "", false
	}
	return kv.CommentText(), true
}

func (d *Document) isKeyValue(i int) bool {
	return i >= 0 && i < len(d.entries) && d.entries[i].Kind == KeyValueEntry
}

// SetValue updates the value of key, or appends a new entry when the key
// is absent.
func (d *Document) SetValue(key, value escape.Text) {
	if i, ok := d.index[key.Raw()]; ok {
		kv := d.entries[i].KV
		if kv.ValueText().Equal(value) {
			return
		}
		entries := slices.Clone(d.entries)
		entries[i].KV = kv.WithValue(value)
		d.commit(entries)
		return
	}

	entries := slices.Clone(d.entries)
	if last := len(entries) - 1; d.isKeyValue(last) {
		entries[last].KV = entries[last].KV.NormalizeTrailing(d.newlines())
	}
	entries = append(entries, keyValueEntry(NewKeyValue(key, value, d.newlines())))
	d.commit(entries)
}

// RenameKey replaces the key token in place. Renaming a missing key does
// nothing; renaming onto another existing key fails.
func (d *Document) RenameKey(old, renamed escape.Text) error {
	if old.Equal(renamed) {
		return nil
	}
	i, ok := d.index[old.Raw()]
	if !ok {
		return nil
	}
	if j, exists := d.index[renamed.Raw()]; exists && j != i {
		return duplicateKeys(renamed.Encoded())
	}
	entries := slices.Clone(d.entries)
	entries[i].KV = entries[i].KV.WithKey(renamed)
	d.commit(entries)
	return nil
}

// RemoveKey deletes the entry for key, tidying the spacing of its
// neighbours. A missing key is ignored.
func (d *Document) RemoveKey(key escape.Text) {
	i, ok := d.index[key.Raw()]
	if !ok {
		return
	}
	entries := slices.Clone(d.entries)
	if d.isKeyValue(i - 1) {
		entries[i-1].KV = entries[i-1].KV.NormalizeTrailing(d.newlines())
	}
	if d.isKeyValue(i + 1) {
		entries[i+1].KV = entries[i+1].KV.NormalizeLeading()
	}
	d.commit(slices.Delete(entries, i, i+1))
}

// SetComment replaces the comments of key with one block comment.
func (d *Document) SetComment(key escape.Text, text string) error {
	text = strings.ReplaceAll(text, "*/", `*\/`)
	return d.SetComments(key, []entity.Entity{entity.BlockComment(" " + text + " ")})
}

func (d *Document) RemoveComment(key escape.Text) error {
	return d.SetComments(key, nil)
}

// SetComments replaces the comment entities of key.
func (d *Document) SetComments(key escape.Text, comments []entity.Entity) error {
	i, ok := d.index[key.Raw()]
	if !ok {
		return keyNotFound(key.Encoded())
	}
	entries := slices.Clone(d.entries)
	entries[i].KV = entries[i].KV.WithComments(comments)
	d.commit(entries)
	return nil
}

// CopyComment replaces the comments of as in to with copies of the
// comments of key.
func (d *Document) CopyComment(key escape.Text, to *Document, as escape.Text) error {
	kv, ok := d.Entry(key)
	if !ok {
		return keyNotFound(key.Encoded())
	}
	comments := make([]entity.Entity, len(kv.Comments))
	for i, c := range kv.Comments {
		comments[i] = c.Clone()
	}
	return to.SetComments(as, comments)
}

// Normalize rewrites the spacing of every key/value entry. Headers and
// incidental entries are left alone and nothing is reordered.
func (d *Document) Normalize() {
	entries := slices.Clone(d.entries)
	dirty := false
	for i, e := range entries {
		if e.Kind != KeyValueEntry {
			continue
		}
		kv := e.KV.Normalize(d.newlines())
		if kv.Text() != e.KV.Text() {
			dirty = true
		}
		entries[i].KV = kv
	}
	if dirty {
		d.commit(entries)
	}
}
