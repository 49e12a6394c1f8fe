package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/tag"
	"strings-toolkit/internal/token"
)

// Texts returns the decoded inner text of every comment token.
func (e Entity) Texts() []string {
	out := make([]string, len(e.Tokens))
	for i, t := range e.Tokens {
		out[i] = t.Value.Raw()
	}
	return out
}

// CommentText joins the inner texts with single spaces.
func (e Entity) CommentText() string {
	return strings.Join(e.Texts(), " ")
}

func (e Entity) withTexts(texts []string) Entity {
	toks := make([]token.Token, len(e.Tokens))
	for i, t := range e.Tokens {
		if t.Value.Raw() == texts[i] {
			toks[i] = t
			continue
		}
		toks[i] = t.WithValue(escape.FromRaw(texts[i]))
	}
	return Entity{Kind: e.Kind, Tokens: toks}
}

func (e Entity) TagValue(name string) (string, bool) {
	return tag.Value(e.Texts(), name)
}

func (e Entity) HasTag(name string) bool {
	return tag.Contains(e.Texts(), name)
}

// WithoutTag removes the tag while keeping the token count.
func (e Entity) WithoutTag(name string) Entity {
	if !e.HasTag(name) {
		return e
	}
	return e.withTexts(tag.Delete(e.Texts(), name))
}

var ErrLineBreak = errors.New("line break in line comment")

// fitComment prepares s for insertion into the comment tokens: `*/` is
// written as `*\/` inside block comments and line breaks are rejected when
// the entity holds a line comment.
func (e Entity) fitComment(s string) (string, error) {
	for _, t := range e.Tokens {
		switch t.Kind {
		case token.BlockComment:
			s = strings.ReplaceAll(s, "*/", `*\/`)
		case token.LineComment:
			if strings.ContainsAny(s, "\r\n") {
				return "", fmt.Errorf("%w: %q", ErrLineBreak, s)
			}
		}
	}
	return s, nil
}

// WithTag sets the tag value, splicing it in place when already present.
func (e Entity) WithTag(name, value string) (Entity, error) {
	if len(e.Tokens) == 0 {
		return e, nil
	}
	value, err := e.fitComment(value)
	if err != nil {
		return e, err
	}
	return e.withTexts(tag.Update(e.Texts(), name, value)), nil
}

// ReplaceText substitutes every occurrence of old across the comment tokens.
func (e Entity) ReplaceText(old, repl string) (Entity, error) {
	repl, err := e.fitComment(repl)
	if err != nil {
		return e, err
	}
	return e.withTexts(tag.Replace(e.Texts(), old, repl)), nil
}

// IsHeaderCandidate reports whether any comment token matches one of the
// patterns.
func (e Entity) IsHeaderCandidate(patterns []*regexp.Regexp) bool {
	if e.Kind != Comment {
		return false
	}
	for _, t := range e.Tokens {
		for _, p := range patterns {
			if p.MatchString(t.Value.Raw()) {
				return true
			}
		}
	}
	return false
}
