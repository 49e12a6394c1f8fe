package escape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedEnd       = errors.New("unexpected end of string")
	ErrInvalidHex          = errors.New("invalid hex value")
	ErrNewlineNotAllowed   = errors.New("newline not allowed")
)

// Error describes a failure to decode an encoded string. Position is the
// 1-based rune offset into Input where decoding stopped.
type Error struct {
	Err      error
	Input    string
	Position int
	Char     rune
	Hex      string
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidHex):
		return fmt.Sprintf("%s %q in %q", e.Err, e.Hex, e.Input)
	case errors.Is(e.Err, ErrUnexpectedCharacter):
		return fmt.Sprintf("%s %q in %q at %d", e.Err, e.Char, e.Input, e.Position)
	case errors.Is(e.Err, ErrNewlineNotAllowed):
		return fmt.Sprintf("%s in %q at %d", e.Err, e.Input, e.Position)
	default:
		return fmt.Sprintf("%s in %q", e.Err, e.Input)
	}
}

// Encode produces the source form of a raw string.
func Encode(raw string) string {
	if !strings.ContainsAny(raw, "\\\"\n\t") {
		return raw
	}
	b := &strings.Builder{}
	b.Grow(len(raw) + 8)
	for _, r := range raw {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Decode interprets the escapes \\, \", \n, \t, \uXXXX and \UXXXXXXXX.
// Any other escape is an error. A literal newline fails when allowNewlines
// is false.
func Decode(encoded string, allowNewlines bool) (string, error) {
	if !strings.ContainsRune(encoded, '\\') && (allowNewlines || !strings.ContainsRune(encoded, '\n')) {
		return encoded, nil
	}

	const (
		normal = iota
		escaped
		unicode
	)

	mode := normal
	hexLen := 0
	hex := make([]rune, 0, 8)
	b := &strings.Builder{}
	b.Grow(len(encoded))

	pos := 0
	for _, c := range encoded {
		pos++
		if c == '\n' && !allowNewlines {
			return "", &Error{Err: ErrNewlineNotAllowed, Input: encoded, Position: pos, Char: c}
		}
		switch mode {
		case normal:
			if c == '\\' {
				mode = escaped
				continue
			}
			b.WriteRune(c)
		case escaped:
			switch c {
			case 'n':
				b.WriteByte('\n')
				mode = normal
			case 't':
				b.WriteByte('\t')
				mode = normal
			case '\\':
				b.WriteByte('\\')
				mode = normal
			case '"':
				b.WriteByte('"')
				mode = normal
			case 'u':
				hexLen = 4
				hex = hex[:0]
				mode = unicode
			case 'U':
				hexLen = 8
				hex = hex[:0]
				mode = unicode
			default:
				return "", &Error{Err: ErrUnexpectedCharacter, Input: encoded, Position: pos, Char: c}
			}
		case unicode:
			hex = append(hex, c)
			if len(hex) < hexLen {
				continue
			}
			r, err := hexRune(string(hex))
			if err != nil {
				return "", &Error{Err: ErrInvalidHex, Input: encoded, Position: pos, Hex: string(hex)}
			}
			b.WriteRune(r)
			mode = normal
		}
	}

	if mode != normal {
		return "", &Error{Err: ErrUnexpectedEnd, Input: encoded, Position: pos}
	}
	return b.String(), nil
}

func hexRune(s string) (rune, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, strconv.ErrRange
	}
	return r, nil
}
