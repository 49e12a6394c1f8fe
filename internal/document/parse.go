package document

import (
	"sort"

	"strings-toolkit/internal/entity"
	"strings-toolkit/internal/token"
)

type parseMode int

const (
	modeDefault parseMode = iota
	modeComment
	modeKey
	modeEquals
	modeValue
	modeSemicolon
)

type parser struct {
	opts    Options
	entries []Entry

	mode    parseMode
	kv      KeyValue
	spaced  bool
	header  bool
	kvCount int
}

// Parse reads text into a Document. Composing the result without edits
// reproduces text exactly.
func Parse(text string, opts Options) (*Document, error) {
	toks, err := token.Tokenize(text)
	if err != nil {
		return nil, err
	}
	ents, err := entity.Build(toks)
	if err != nil {
		return nil, err
	}

	p := &parser{opts: opts}
	for _, e := range ents {
		if err := p.feed(e); err != nil {
			return nil, err
		}
	}
	if err := p.finish(); err != nil {
		return nil, err
	}

	entries, err := p.dedupe()
	if err != nil {
		return nil, err
	}
	// Dropped duplicates count as an edit so the file gets rewritten.
	d := &Document{opts: opts, entries: entries, changed: len(entries) != len(p.entries)}
	d.reindex()
	return d, nil
}

func (p *parser) emit(e Entry) {
	p.entries = append(p.entries, e)
}

func (p *parser) emitKeyValue() {
	kv := p.kv
	for _, sp := range []*entity.Entity{&kv.AfterComments, &kv.AfterKey, &kv.AfterEquals, &kv.AfterValue, &kv.AfterSemicolon} {
		if sp.Tokens == nil {
			*sp = entity.Spaces("")
		}
	}
	p.emit(keyValueEntry(kv))
	p.kvCount++
	p.kv = KeyValue{}
	p.spaced = false
	p.mode = modeDefault
}

func (p *parser) startComment(c entity.Entity) {
	p.kv = KeyValue{Comments: []entity.Entity{c}}
	p.spaced = false
	p.mode = modeComment
}

func (p *parser) feed(e entity.Entity) error {
	for {
		reparse := false

		switch p.mode {
		case modeDefault:
			switch e.Kind {
			case entity.Comment:
				p.startComment(e)
			case entity.StringLiteral:
				p.kv = KeyValue{Key: e}
				p.mode = modeKey
			case entity.Spacing:
				p.emit(incidentalEntry(e))
			default:
				return unexpected(e)
			}

		case modeComment:
			switch e.Kind {
			case entity.Comment:
				switch {
				case !p.spaced:
					p.kv.Comments = append(p.kv.Comments, e)
				case p.header || p.kvCount > 0:
					p.emit(incidentalEntry(append(p.kv.Comments, p.kv.AfterComments)...))
					p.startComment(e)
				default:
					p.header = true
					p.emit(headerEntry(p.kv.Comments[0]))
					if len(p.kv.Comments) > 1 {
						p.emit(incidentalEntry(p.kv.Comments[1:]...))
					}
					p.emit(incidentalEntry(p.kv.AfterComments))
					p.startComment(e)
				}
			case entity.StringLiteral:
				if !p.header && p.kvCount == 0 && p.kv.Comments[0].IsHeaderCandidate(p.opts.HeaderPatterns) {
					p.header = true
					if len(p.kv.Comments) > 1 {
						p.emit(headerEntry(p.kv.Comments[0]))
						p.kv.Comments = p.kv.Comments[1:]
					} else {
						h := headerEntry(p.kv.Comments[0])
						if p.spaced {
							h.Entities = append(h.Entities, p.kv.AfterComments)
						}
						p.emit(h)
						p.kv = KeyValue{}
					}
				}
				p.kv.Key = e
				p.mode = modeKey
			case entity.Spacing:
				if p.spaced {
					return unexpected(e)
				}
				p.kv.AfterComments = e
				p.spaced = true
			default:
				return unexpected(e)
			}

		case modeKey:
			switch {
			case e.IsEquals():
				p.kv.Equals = e
				p.mode = modeEquals
			case e.Kind == entity.Spacing:
				p.kv.AfterKey = e
			default:
				return unexpected(e)
			}

		case modeEquals:
			switch e.Kind {
			case entity.StringLiteral:
				p.kv.Value = e
				p.mode = modeValue
			case entity.Spacing:
				p.kv.AfterEquals = e
			default:
				return unexpected(e)
			}

		case modeValue:
			switch {
			case e.IsSemicolon():
				p.kv.Semicolon = e
				p.mode = modeSemicolon
			case e.Kind == entity.Spacing:
				p.kv.AfterValue = e
			default:
				return unexpected(e)
			}

		case modeSemicolon:
			if e.Kind == entity.Spacing {
				p.kv.AfterSemicolon = e
				p.emitKeyValue()
			} else {
				p.emitKeyValue()
				reparse = true
			}
		}

		if !reparse {
			return nil
		}
	}
}

func (p *parser) finish() error {
	switch p.mode {
	case modeComment:
		ents := p.kv.Comments
		if p.spaced {
			ents = append(ents, p.kv.AfterComments)
		}
		p.emit(incidentalEntry(ents...))
	case modeKey:
		return unexpectedEOF("=")
	case modeEquals:
		return unexpectedEOF("Key value")
	case modeValue:
		return unexpectedEOF(";")
	case modeSemicolon:
		p.emitKeyValue()
	}
	return nil
}

// dedupe applies the duplicate key policy to the parsed entries.
func (p *parser) dedupe() ([]Entry, error) {
	seen := make(map[string]bool)
	dups := make(map[string]string)
	out := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		if e.Kind == KeyValueEntry {
			k := e.KV.KeyText()
			if seen[k.Raw()] {
				dups[k.Raw()] = k.Encoded()
				if p.opts.DropDuplicates {
					continue
				}
			}
			seen[k.Raw()] = true
		}
		out = append(out, e)
	}
	if len(dups) > 0 && !p.opts.DropDuplicates {
		keys := make([]string, 0, len(dups))
		for _, enc := range dups {
			keys = append(keys, enc)
		}
		sort.Strings(keys)
		return nil, duplicateKeys(keys...)
	}
	return out, nil
}
