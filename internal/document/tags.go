package document

import (
	"fmt"
	"slices"
	"strings"

	"strings-toolkit/internal/entity"
	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/tag"
)

// TagValue reads a tag from the comments attached to key.
func (d *Document) TagValue(key escape.Text, name string) (string, bool) {
	kv, ok := d.Entry(key)
	if !ok {
		return "", false
	}
	return tag.Value(kv.CommentTexts(), name)
}

// SetTag writes a tag into the comments of key. An existing tag is updated
// where it is and removed from any other comment; otherwise it is added to
// the first comment, or to a new line comment when there is none.
func (d *Document) SetTag(key escape.Text, name, value string) error {
	i, ok := d.index[key.Raw()]
	if !ok {
		return keyNotFound(key.Encoded())
	}
	kv := d.entries[i].KV

	comments := make([]entity.Entity, len(kv.Comments))
	owner := -1
	var err error
	for j, c := range kv.Comments {
		if owner < 0 && c.HasTag(name) {
			owner = j
			if comments[j], err = c.WithTag(name, value); err != nil {
				return fmt.Errorf("set tag %s of %s: %w", name, key.Encoded(), err)
			}
			continue
		}
		comments[j] = c.WithoutTag(name)
	}

	switch {
	case owner >= 0:
		kv.Comments = comments
	case len(comments) > 0:
		if comments[0], err = comments[0].WithTag(name, value); err != nil {
			return fmt.Errorf("set tag %s of %s: %w", name, key.Encoded(), err)
		}
		kv.Comments = comments
	default:
		c, err := entity.LineComment(" ").WithTag(name, value)
		if err != nil {
			return fmt.Errorf("set tag %s of %s: %w", name, key.Encoded(), err)
		}
		kv = kv.WithComments([]entity.Entity{c})
	}

	if kv.Text() == d.entries[i].KV.Text() {
		return nil
	}
	entries := slices.Clone(d.entries)
	entries[i].KV = kv
	d.commit(entries)
	return nil
}

// DeleteTag removes a tag from every comment of key. A missing key is
// ignored.
func (d *Document) DeleteTag(key escape.Text, name string) {
	i, ok := d.index[key.Raw()]
	if !ok {
		return
	}
	kv := d.entries[i].KV
	comments := make([]entity.Entity, len(kv.Comments))
	dirty := false
	for j, c := range kv.Comments {
		comments[j] = c.WithoutTag(name)
		if comments[j].Text() != c.Text() {
			dirty = true
		}
	}
	if !dirty {
		return
	}
	kv.Comments = comments
	entries := slices.Clone(d.entries)
	entries[i].KV = kv
	d.commit(entries)
}

// ReplaceInComments substitutes old with repl in the comments of every
// key/value entry and returns the number of entries changed. Nothing changes
// when repl cannot be written into one of the affected comments.
func (d *Document) ReplaceInComments(old, repl string) (int, error) {
	if old == "" || old == repl {
		return 0, nil
	}
	entries := slices.Clone(d.entries)
	changed := 0
	for i, e := range entries {
		if e.Kind != KeyValueEntry {
			continue
		}
		kv := e.KV
		comments := make([]entity.Entity, len(kv.Comments))
		dirty := false
		for j, c := range kv.Comments {
			if !strings.Contains(strings.Join(c.Texts(), ""), old) {
				comments[j] = c
				continue
			}
			r, err := c.ReplaceText(old, repl)
			if err != nil {
				return 0, fmt.Errorf("replace in comment of %s: %w", kv.KeyText().Encoded(), err)
			}
			comments[j] = r
			dirty = true
		}
		if !dirty {
			continue
		}
		kv.Comments = comments
		entries[i].KV = kv
		changed++
	}
	if changed > 0 {
		d.commit(entries)
	}
	return changed, nil
}
