package escape

import (
	"fmt"
	"strings"
)

// DefaultUntranslatedMarker prefixes values that still need translating.
const DefaultUntranslatedMarker = "#"

// Source records which form a Text was built from.
type Source int

const (
	FromRawSource Source = iota
	FromEncodedSource
)

// Text holds a string in both its decoded (raw) and source-encoded form.
// The zero value is the empty string.
type Text struct {
	raw     string
	encoded string
	source  Source
}

// FromRaw never fails.
func FromRaw(raw string) Text {
	return Text{raw: raw, encoded: Encode(raw), source: FromRawSource}
}

// FromEncoded keeps the encoded form verbatim, so `\u0041` survives
// re-serialisation even though it decodes to "A".
func FromEncoded(encoded string) (Text, error) {
	raw, err := Decode(encoded, true)
	if err != nil {
		return Text{}, err
	}
	return Text{raw: raw, encoded: encoded, source: FromEncodedSource}, nil
}

// FromEncodedLine is FromEncoded with literal newlines rejected.
func FromEncodedLine(encoded string) (Text, error) {
	raw, err := Decode(encoded, false)
	if err != nil {
		return Text{}, err
	}
	return Text{raw: raw, encoded: encoded, source: FromEncodedSource}, nil
}

func (t Text) Raw() string     { return t.raw }
func (t Text) Encoded() string { return t.encoded }
func (t Text) Source() Source  { return t.source }
func (t Text) IsEmpty() bool   { return t.raw == "" }

// Equal requires both forms to match.
func (t Text) Equal(o Text) bool {
	return t.raw == o.raw && t.encoded == o.encoded
}

// Compare orders by the decoded form only.
func (t Text) Compare(o Text) int {
	return strings.Compare(t.raw, o.raw)
}

func (t Text) Less(o Text) bool {
	return t.raw < o.raw
}

func (t Text) String() string {
	return fmt.Sprintf("<Text raw=%q encoded=%q>", t.raw, t.encoded)
}

func marker(m string) string {
	if m == "" {
		return DefaultUntranslatedMarker
	}
	return m
}

// IsUntranslated reports whether the encoded form starts with the marker.
// An empty marker means DefaultUntranslatedMarker.
func (t Text) IsUntranslated(m string) bool {
	return strings.HasPrefix(t.encoded, marker(m))
}

// MakeTranslated strips the marker, preserving the form t was built from.
func (t Text) MakeTranslated(m string) Text {
	if !t.IsUntranslated(m) {
		return t
	}
	p := marker(m)
	if t.source == FromEncodedSource {
		rest := strings.TrimPrefix(t.encoded, p)
		if v, err := FromEncoded(rest); err == nil {
			return v
		}
		// the marker split an escape sequence; fall back to the raw form
	}
	return FromRaw(strings.TrimPrefix(t.raw, p))
}

// MakeUntranslated prepends the marker unless already present.
func (t Text) MakeUntranslated(m string) Text {
	if t.IsUntranslated(m) {
		return t
	}
	p := marker(m)
	if t.source == FromEncodedSource {
		if v, err := FromEncoded(p + t.encoded); err == nil {
			return v
		}
	}
	return FromRaw(p + t.raw)
}
