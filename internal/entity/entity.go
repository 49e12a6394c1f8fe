// Package entity groups tokens into the units the document grammar works
// with: spacing, comment runs, string literals and the `=` / `;` service
// characters.
package entity

import (
	"errors"
	"fmt"
	"strings"

	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/token"
)

type Kind int

const (
	Spacing Kind = iota
	Comment
	StringLiteral
	Service
)

func (k Kind) String() string {
	switch k {
	case Spacing:
		return "spacing"
	case Comment:
		return "comment"
	case StringLiteral:
		return "string"
	case Service:
		return "service"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entity is a classified span of tokens. Only Comment entities hold more
// than one token.
type Entity struct {
	Kind   Kind
	Tokens []token.Token
}

var ErrUnexpectedToken = errors.New("unexpected token")

type Error struct {
	Err   error
	Token token.Token
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q at line %d", e.Err, e.Token.Text(), e.Token.Line)
}

func kindOf(k token.Kind) Kind {
	switch k {
	case token.Spaces:
		return Spacing
	case token.LineComment, token.BlockComment:
		return Comment
	case token.String:
		return StringLiteral
	default:
		return Service
	}
}

// Build groups a token stream into entities. Directly adjacent comment
// tokens form one Comment entity; two adjacent string, `=` or `;` tokens are
// an error. When the stream starts with a run of several comments, the part
// that most likely documents the first key (the last block comment, or the
// trailing line comments) is split into its own entity so the rest can
// become a file header.
func Build(tokens []token.Token) ([]Entity, error) {
	var groups [][]token.Token
	for _, t := range tokens {
		n := len(groups)
		if n > 0 {
			last := groups[n-1][len(groups[n-1])-1]
			if (last.Kind.IsComment() && t.Kind.IsComment()) || (last.Kind == token.Spaces && t.Kind == token.Spaces) {
				groups[n-1] = append(groups[n-1], t)
				continue
			}
			if last.Kind == t.Kind {
				return nil, &Error{Err: ErrUnexpectedToken, Token: t}
			}
		}
		groups = append(groups, []token.Token{t})
	}

	entities := make([]Entity, 0, len(groups))
	for _, g := range groups {
		switch kindOf(g[0].Kind) {
		case Comment:
			if len(entities) == 0 && len(g) > 1 {
				split := len(g) - 1
				if g[split].Kind == token.LineComment {
					for split > 0 && g[split-1].Kind == token.LineComment {
						split--
					}
				}
				if split > 0 {
					entities = append(entities, Entity{Kind: Comment, Tokens: g[:split]})
					g = g[split:]
				}
			}
			entities = append(entities, Entity{Kind: Comment, Tokens: g})
		case Spacing:
			if len(g) > 1 {
				var b strings.Builder
				for _, t := range g {
					b.WriteString(t.Value.Raw())
				}
				sp := Spaces(b.String())
				sp.Tokens[0].Line = g[0].Line
				entities = append(entities, sp)
				continue
			}
			entities = append(entities, Entity{Kind: Spacing, Tokens: g})
		default:
			entities = append(entities, Entity{Kind: kindOf(g[0].Kind), Tokens: g})
		}
	}
	return entities, nil
}

// Spaces returns a Spacing entity holding s verbatim.
func Spaces(s string) Entity {
	return Entity{Kind: Spacing, Tokens: []token.Token{token.New(token.Spaces, token.Raw, "", escape.FromRaw(s), "")}}
}

// Newlines returns n newline characters as one Spacing entity.
func Newlines(n int) Entity {
	if n < 0 {
		n = 0
	}
	return Spaces(strings.Repeat("\n", n))
}

// QuotedString returns a StringLiteral written between double quotes.
func QuotedString(v escape.Text) Entity {
	return Entity{Kind: StringLiteral, Tokens: []token.Token{token.New(token.String, token.Escaping, `"`, v, `"`)}}
}

func EqualsSign() Entity {
	return Entity{Kind: Service, Tokens: []token.Token{token.New(token.Equals, token.Raw, "", escape.FromRaw("="), "")}}
}

func Semicolon() Entity {
	return Entity{Kind: Service, Tokens: []token.Token{token.New(token.Semicolon, token.Raw, "", escape.FromRaw(";"), "")}}
}

// BlockComment returns `/*text*/`.
func BlockComment(text string) Entity {
	return Entity{Kind: Comment, Tokens: []token.Token{token.New(token.BlockComment, token.EscapingComment, "/*", escape.FromRaw(text), "*/")}}
}

// LineComment returns `//text`.
func LineComment(text string) Entity {
	return Entity{Kind: Comment, Tokens: []token.Token{token.New(token.LineComment, token.EscapingComment, "//", escape.FromRaw(text), "")}}
}

// Text renders the entity as it appears in the document.
func (e Entity) Text() string {
	if len(e.Tokens) == 1 {
		return e.Tokens[0].Text()
	}
	var b strings.Builder
	for _, t := range e.Tokens {
		b.WriteString(t.Text())
	}
	return b.String()
}

func (e Entity) String() string {
	return fmt.Sprintf("%s %q", e.Kind, e.Text())
}

// Line is the source line of the first token, 0 when synthesized.
func (e Entity) Line() int {
	if len(e.Tokens) == 0 {
		return 0
	}
	return e.Tokens[0].Line
}

// Value is the inner value of a single-token entity.
func (e Entity) Value() escape.Text {
	if len(e.Tokens) == 0 {
		return escape.Text{}
	}
	return e.Tokens[0].Value
}

func (e Entity) IsEquals() bool {
	return e.Kind == Service && len(e.Tokens) == 1 && e.Tokens[0].Kind == token.Equals
}

func (e Entity) IsSemicolon() bool {
	return e.Kind == Service && len(e.Tokens) == 1 && e.Tokens[0].Kind == token.Semicolon
}

// WithValue replaces the inner value of a single-token entity.
func (e Entity) WithValue(v escape.Text) Entity {
	if len(e.Tokens) == 0 {
		return e
	}
	toks := make([]token.Token, len(e.Tokens))
	copy(toks, e.Tokens)
	toks[0] = toks[0].WithValue(v)
	return Entity{Kind: e.Kind, Tokens: toks}
}

// Clone returns an entity that shares no token slice with e.
func (e Entity) Clone() Entity {
	toks := make([]token.Token, len(e.Tokens))
	copy(toks, e.Tokens)
	return Entity{Kind: e.Kind, Tokens: toks}
}
