package token

import (
	"errors"
	"fmt"
	"unicode"

	"strings-toolkit/internal/escape"
)

var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedEOF       = errors.New("unexpected end of file")
)

// SyntaxError is returned by Tokenize. Line and Col are 1-based; What names
// the construct that was incomplete or could not be decoded.
type SyntaxError struct {
	Err  error
	Char rune
	Line int
	Col  int
	What string
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnexpectedCharacter):
		return fmt.Sprintf("%s %q at line %d, column %d", e.Err, e.Char, e.Line, e.Col)
	case errors.Is(e.Err, ErrUnexpectedEOF):
		return fmt.Sprintf("%s: incomplete %s", e.Err, e.What)
	default:
		return fmt.Sprintf("invalid %s at line %d, column %d: %s", e.What, e.Line, e.Col, e.Err)
	}
}

type state int

const (
	stSpacing state = iota
	stPreComment
	stLineComment
	stBlockComment
	stBlockEscape
	stPreClose
	stQuoted
	stQuotedEscape
	stBare
)

var incomplete = map[state]string{
	stPreComment:   "comment opening",
	stBlockComment: "block comment",
	stBlockEscape:  "block comment escape",
	stPreClose:     "block comment closure",
	stQuoted:       "string",
	stQuotedEscape: "string escape",
}

type tokenizer struct {
	text   string
	tokens []Token

	st        state
	start     int
	startLine int
	startCol  int

	line int
	col  int
}

// Tokenize splits text into tokens in a single pass. Concatenating the
// Text() of every returned token reproduces the input.
func Tokenize(text string) ([]Token, error) {
	t := &tokenizer{text: text, line: 1, startLine: 1, startCol: 1}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.tokens, nil
}

func (t *tokenizer) begin(st state, at int) {
	t.st = st
	t.start = at
	t.startLine = t.line
	t.startCol = t.col
}

func (t *tokenizer) newline() {
	t.line++
	t.col = 0
}

func (t *tokenizer) push(tok Token) {
	tok.Line = t.startLine
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) flushSpaces(end int) {
	if end > t.start {
		t.push(New(Spaces, Raw, "", escape.FromRaw(t.text[t.start:end]), ""))
	}
}

func (t *tokenizer) pushString(prefix, inner, suffix string) error {
	v, err := escape.FromEncoded(inner)
	if err != nil {
		return &SyntaxError{Err: err, Line: t.startLine, Col: t.startCol, What: "string"}
	}
	t.push(New(String, Escaping, prefix, v, suffix))
	return nil
}

func (t *tokenizer) run() error {
	for i, c := range t.text {
		t.col++

		if t.st == stBare && !isBareRune(c) {
			if err := t.pushString("", t.text[t.start:i], ""); err != nil {
				return err
			}
			t.begin(stSpacing, i)
		}

		switch t.st {
		case stSpacing:
			switch {
			case c == '"':
				t.flushSpaces(i)
				t.begin(stQuoted, i)
			case c == '=' || c == ';':
				t.flushSpaces(i)
				t.begin(stSpacing, i)
				kind := Equals
				if c == ';' {
					kind = Semicolon
				}
				t.push(New(kind, Raw, "", escape.FromRaw(string(c)), ""))
				t.begin(stSpacing, i+1)
			case c == '/':
				t.flushSpaces(i)
				t.begin(stPreComment, i)
			case c == '\n':
				t.newline()
			case unicode.IsSpace(c):
			case isBareRune(c):
				t.flushSpaces(i)
				t.begin(stBare, i)
			default:
				return &SyntaxError{Err: ErrUnexpectedCharacter, Char: c, Line: t.line, Col: t.col}
			}

		case stPreComment:
			switch c {
			case '/':
				t.st = stLineComment
			case '*':
				t.st = stBlockComment
			default:
				return &SyntaxError{Err: ErrUnexpectedCharacter, Char: c, Line: t.line, Col: t.col}
			}

		case stLineComment:
			if c == '\n' {
				t.push(New(LineComment, Raw, "//", escape.FromRaw(t.text[t.start+2:i]), ""))
				t.begin(stSpacing, i)
				t.newline()
			}

		case stBlockComment:
			switch c {
			case '\\':
				t.st = stBlockEscape
			case '*':
				t.st = stPreClose
			case '\n':
				t.newline()
			}

		case stBlockEscape:
			if c == '\n' {
				t.newline()
			}
			t.st = stBlockComment

		case stPreClose:
			switch c {
			case '/':
				t.push(New(BlockComment, EscapingComment, "/*", escape.FromRaw(t.text[t.start+2:i-1]), "*/"))
				t.begin(stSpacing, i+1)
			case '*':
			case '\n':
				t.newline()
				t.st = stBlockComment
			default:
				t.st = stBlockComment
			}

		case stQuoted:
			switch c {
			case '\\':
				t.st = stQuotedEscape
			case '"':
				if err := t.pushString(`"`, t.text[t.start+1:i], `"`); err != nil {
					return err
				}
				t.begin(stSpacing, i+1)
			case '\n':
				t.newline()
			}

		case stQuotedEscape:
			if c == '\n' {
				t.newline()
			}
			t.st = stQuoted
		}
	}

	end := len(t.text)
	switch t.st {
	case stSpacing:
		t.flushSpaces(end)
	case stLineComment:
		t.push(New(LineComment, Raw, "//", escape.FromRaw(t.text[t.start+2:]), ""))
	case stBare:
		return t.pushString("", t.text[t.start:], "")
	default:
		return &SyntaxError{Err: ErrUnexpectedEOF, Line: t.line, Col: t.col, What: incomplete[t.st]}
	}
	return nil
}
