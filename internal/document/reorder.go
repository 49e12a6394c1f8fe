package document

import (
	"slices"
	"strings"

	"strings-toolkit/internal/escape"
)

// Comparator orders keys the way slices.SortFunc expects.
type Comparator func(a, b escape.Text) int

// ByRaw orders keys by their decoded form.
func ByRaw(a, b escape.Text) int {
	return a.Compare(b)
}

// CaseInsensitive orders keys by their lower-cased encoded form.
func CaseInsensitive(a, b escape.Text) int {
	return strings.Compare(strings.ToLower(a.Encoded()), strings.ToLower(b.Encoded()))
}

// Sort stably reorders key/value entries. Entries move with their comments,
// but the spacing after each `;` stays with the position, and header and
// incidental entries do not move.
func (d *Document) Sort(cmp Comparator) {
	if cmp == nil {
		cmp = ByRaw
	}

	var positions []int
	var kvs []KeyValue
	for i, e := range d.entries {
		if e.Kind == KeyValueEntry {
			positions = append(positions, i)
			kvs = append(kvs, e.KV)
		}
	}
	sorted := slices.Clone(kvs)
	slices.SortStableFunc(sorted, func(a, b KeyValue) int {
		return cmp(a.KeyText(), b.KeyText())
	})

	moved := false
	for i := range kvs {
		if !sorted[i].KeyText().Equal(kvs[i].KeyText()) {
			moved = true
			break
		}
	}
	if !moved {
		return
	}

	entries := slices.Clone(d.entries)
	for j, pos := range positions {
		entries[pos].KV = sorted[j].WithAfterSemicolon(d.entries[pos].KV.AfterSemicolon)
	}
	d.commit(entries)
}

// Copy puts a copy of the entry for key into to under the same key.
func (d *Document) Copy(key escape.Text, to *Document) error {
	return d.CopyAs(key, to, key)
}

// CopyAs puts a copy of the entry for key into to under the key as. An
// existing entry for as is replaced in place, otherwise the copy is
// appended.
func (d *Document) CopyAs(key escape.Text, to *Document, as escape.Text) error {
	kv, ok := d.Entry(key)
	if !ok {
		return keyNotFound(key.Encoded())
	}
	if to == d && key.Raw() == as.Raw() {
		return nil
	}
	to.put(kv.Clone().WithKey(as))
	return nil
}

func (d *Document) put(kv KeyValue) {
	n := d.newlines()
	entries := slices.Clone(d.entries)
	if i, ok := d.index[kv.KeyText().Raw()]; ok {
		if d.isKeyValue(i - 1) {
			entries[i-1].KV = entries[i-1].KV.NormalizeTrailing(n)
		}
		if d.isKeyValue(i + 1) {
			entries[i+1].KV = entries[i+1].KV.NormalizeLeading()
		}
		entries[i] = keyValueEntry(kv.Normalize(n))
	} else {
		if last := len(entries) - 1; d.isKeyValue(last) {
			entries[last].KV = entries[last].KV.NormalizeTrailing(n)
		}
		entries = append(entries, keyValueEntry(kv.Normalize(n)))
	}
	d.commit(entries)
}

// Move is Copy followed by removing key from d.
func (d *Document) Move(key escape.Text, to *Document) error {
	return d.MoveAs(key, to, key)
}

func (d *Document) MoveAs(key escape.Text, to *Document, as escape.Text) error {
	if to == d && key.Raw() == as.Raw() {
		if !d.KeyExists(key) {
			return keyNotFound(key.Encoded())
		}
		return nil
	}
	if err := d.CopyAs(key, to, as); err != nil {
		return err
	}
	d.RemoveKey(key)
	return nil
}
