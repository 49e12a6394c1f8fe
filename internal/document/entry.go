package document

import (
	"fmt"
	"strings"

	"strings-toolkit/internal/entity"
	"strings-toolkit/internal/escape"
)

type EntryKind int

const (
	// Header is the file's leading comment block.
	Header EntryKind = iota
	KeyValueEntry
	// Incidental holds spacing and stray comments that belong to no key.
	Incidental
)

func (k EntryKind) String() string {
	switch k {
	case Header:
		return "header"
	case KeyValueEntry:
		return "key-value"
	case Incidental:
		return "incidental"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Entry is one logical unit of a document. Header and Incidental entries
// keep their content in Entities; KeyValue entries in KV.
type Entry struct {
	Kind     EntryKind
	Entities []entity.Entity
	KV       KeyValue
}

func headerEntry(ents ...entity.Entity) Entry {
	return Entry{Kind: Header, Entities: ents}
}

func incidentalEntry(ents ...entity.Entity) Entry {
	return Entry{Kind: Incidental, Entities: ents}
}

func keyValueEntry(kv KeyValue) Entry {
	return Entry{Kind: KeyValueEntry, KV: kv}
}

func (e Entry) Text() string {
	if e.Kind == KeyValueEntry {
		return e.KV.Text()
	}
	var b strings.Builder
	for _, ent := range e.Entities {
		b.WriteString(ent.Text())
	}
	return b.String()
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %q", e.Kind, e.Text())
}

// Comments returns the comment entities of any entry kind.
func (e Entry) Comments() []entity.Entity {
	if e.Kind == KeyValueEntry {
		return e.KV.Comments
	}
	var out []entity.Entity
	for _, ent := range e.Entities {
		if ent.Kind == entity.Comment {
			out = append(out, ent)
		}
	}
	return out
}

// KeyValue is a `key = value;` entry with its leading comments and every
// piece of spacing between the parts.
type KeyValue struct {
	Comments       []entity.Entity
	AfterComments  entity.Entity
	Key            entity.Entity
	AfterKey       entity.Entity
	Equals         entity.Entity
	AfterEquals    entity.Entity
	Value          entity.Entity
	AfterValue     entity.Entity
	Semicolon      entity.Entity
	AfterSemicolon entity.Entity
}

// NewKeyValue builds a quoted, normalized entry followed by newlines blank
// lines.
func NewKeyValue(key, value escape.Text, newlines int) KeyValue {
	kv := KeyValue{
		Key:       entity.QuotedString(key),
		Equals:    entity.EqualsSign(),
		Value:     entity.QuotedString(value),
		Semicolon: entity.Semicolon(),
	}
	return kv.Normalize(newlines)
}

func (kv KeyValue) parts() []entity.Entity {
	out := make([]entity.Entity, 0, len(kv.Comments)+9)
	out = append(out, kv.Comments...)
	return append(out,
		kv.AfterComments,
		kv.Key,
		kv.AfterKey,
		kv.Equals,
		kv.AfterEquals,
		kv.Value,
		kv.AfterValue,
		kv.Semicolon,
		kv.AfterSemicolon,
	)
}

func (kv KeyValue) Text() string {
	var b strings.Builder
	for _, e := range kv.parts() {
		b.WriteString(e.Text())
	}
	return b.String()
}

func (kv KeyValue) KeyText() escape.Text {
	return kv.Key.Value()
}

func (kv KeyValue) ValueText() escape.Text {
	return kv.Value.Value()
}

// CommentText joins every comment token's text with single spaces.
func (kv KeyValue) CommentText() string {
	texts := make([]string, 0, len(kv.Comments))
	for _, c := range kv.Comments {
		texts = append(texts, c.CommentText())
	}
	return strings.Join(texts, " ")
}

// CommentTexts flattens the inner texts of all comment tokens.
func (kv KeyValue) CommentTexts() []string {
	var out []string
	for _, c := range kv.Comments {
		out = append(out, c.Texts()...)
	}
	return out
}

func (kv KeyValue) WithKey(key escape.Text) KeyValue {
	if kv.KeyText().Equal(key) {
		return kv
	}
	kv.Key = kv.Key.WithValue(key)
	return kv
}

func (kv KeyValue) WithValue(value escape.Text) KeyValue {
	if kv.ValueText().Equal(value) {
		return kv
	}
	kv.Value = kv.Value.WithValue(value)
	return kv
}

// WithComments replaces the comments and resets the spacing after them.
func (kv KeyValue) WithComments(comments []entity.Entity) KeyValue {
	kv.Comments = comments
	return kv.NormalizeLeading()
}

func (kv KeyValue) WithAfterSemicolon(sp entity.Entity) KeyValue {
	kv.AfterSemicolon = sp
	return kv
}

// NormalizeLeading puts exactly one newline between comments and key.
func (kv KeyValue) NormalizeLeading() KeyValue {
	if len(kv.Comments) > 0 {
		kv.AfterComments = entity.Newlines(1)
	} else {
		kv.AfterComments = entity.Spaces("")
	}
	return kv
}

// NormalizeTrailing puts n newlines after the semicolon.
func (kv KeyValue) NormalizeTrailing(n int) KeyValue {
	kv.AfterSemicolon = entity.Newlines(n)
	return kv
}

// Normalize rewrites all spacing: one space around `=`, none before `;`
// and n newlines after it.
func (kv KeyValue) Normalize(n int) KeyValue {
	kv = kv.NormalizeLeading()
	kv.AfterKey = entity.Spaces(" ")
	kv.AfterEquals = entity.Spaces(" ")
	kv.AfterValue = entity.Spaces("")
	return kv.NormalizeTrailing(n)
}

// Clone returns a deep copy.
func (kv KeyValue) Clone() KeyValue {
	out := kv
	out.Comments = make([]entity.Entity, len(kv.Comments))
	for i, c := range kv.Comments {
		out.Comments[i] = c.Clone()
	}
	out.AfterComments = kv.AfterComments.Clone()
	out.Key = kv.Key.Clone()
	out.AfterKey = kv.AfterKey.Clone()
	out.Equals = kv.Equals.Clone()
	out.AfterEquals = kv.AfterEquals.Clone()
	out.Value = kv.Value.Clone()
	out.AfterValue = kv.AfterValue.Clone()
	out.Semicolon = kv.Semicolon.Clone()
	out.AfterSemicolon = kv.AfterSemicolon.Clone()
	return out
}
