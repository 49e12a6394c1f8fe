package token

import (
	"fmt"
	"unicode"

	"strings-toolkit/internal/escape"
)

type Kind int

const (
	Spaces Kind = iota
	LineComment
	BlockComment
	String
	Equals
	Semicolon
)

func (k Kind) String() string {
	switch k {
	case Spaces:
		return "spaces"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	case String:
		return "string"
	case Equals:
		return "equals"
	case Semicolon:
		return "semicolon"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// Mode selects how a token's inner value is written back out.
type Mode int

const (
	// Raw writes the decoded value.
	Raw Mode = iota
	// Escaping writes the encoded value.
	Escaping
	// EscapingComment stores comment content verbatim; backslashes are literal.
	EscapingComment
)

func (m Mode) String() string {
	switch m {
	case Raw:
		return "raw"
	case Escaping:
		return "escaping"
	case EscapingComment:
		return "escaping-comment"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Token is an immutable lexical unit. Prefix + inner + Suffix reproduces the
// source slice it was read from.
type Token struct {
	Kind   Kind
	Mode   Mode
	Prefix string
	Value  escape.Text
	Suffix string
	// Line is the 1-based line the token starts on; 0 for synthesized tokens.
	Line int
}

func New(kind Kind, mode Mode, prefix string, value escape.Text, suffix string) Token {
	return Token{Kind: kind, Mode: mode, Prefix: prefix, Value: value, Suffix: suffix}
}

// Text renders the token exactly as it appears in a document.
func (t Token) Text() string {
	if t.Mode == Escaping {
		return t.Prefix + t.Value.Encoded() + t.Suffix
	}
	return t.Prefix + t.Value.Raw() + t.Suffix
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text())
}

// WithValue replaces the inner value. A bare string token is wrapped in
// quotes once the text it would write is empty or no longer a bare word.
func (t Token) WithValue(v escape.Text) Token {
	n := t
	n.Value = v
	n.Line = 0
	written := v.Raw()
	if t.Mode == Escaping {
		written = v.Encoded()
	}
	if t.Kind == String && t.Prefix == "" && t.Suffix == "" && !IsBareWord(written) {
		n.Prefix, n.Suffix = `"`, `"`
	}
	return n
}

// AppendRaw extends the decoded value.
func (t Token) AppendRaw(s string) Token {
	return t.WithValue(escape.FromRaw(t.Value.Raw() + s))
}

func isBareRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// IsBareWord reports whether s can be written without quotes.
func IsBareWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isBareRune(r) {
			return false
		}
	}
	return true
}

// Equal compares kind and rendered text.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Text() == o.Text()
}
