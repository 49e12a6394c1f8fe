// Package tag reads and edits `@@name=###value###` markers embedded in
// comment text.
//
// A comment may be split over several tokens. Every operation works on the
// concatenation of the token texts while remembering which token each
// character came from, so that the edited text can be split back into the
// same number of tokens.
package tag

import (
	"math"
	"strings"
	"unicode"
)

const (
	Prefix    = "@@"
	Separator = "="
	Delimiter = "###"
)

// Marker returns the opening sequence of the tag called name.
func Marker(name string) string {
	return Prefix + name + Separator + Delimiter
}

// Format renders a complete tag.
func Format(name, value string) string {
	return Marker(name) + value + Delimiter
}

type cell struct {
	origin int
	ch     rune
}

type arena []cell

func build(texts []string) arena {
	a := make(arena, 0, len(texts)*16)
	for i, s := range texts {
		for _, r := range s {
			a = append(a, cell{origin: i, ch: r})
		}
	}
	return a
}

func (a arena) String() string {
	var b strings.Builder
	for _, c := range a {
		b.WriteRune(c.ch)
	}
	return b.String()
}

func (a arena) index(pattern []rune, from int) int {
	if len(pattern) == 0 {
		return -1
	}
outer:
	for i := from; i+len(pattern) <= len(a); i++ {
		for j, r := range pattern {
			if a[i+j].ch != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

// find locates the first complete tag called name and returns the offsets of
// the marker start, the value bounds and the end of the closing delimiter.
func (a arena) find(name string) (start, valueStart, valueEnd, end int, ok bool) {
	marker := []rune(Marker(name))
	start = a.index(marker, 0)
	if start < 0 {
		return 0, 0, 0, 0, false
	}
	valueStart = start + len(marker)
	valueEnd = a.index([]rune(Delimiter), valueStart)
	if valueEnd < 0 {
		return 0, 0, 0, 0, false
	}
	return start, valueStart, valueEnd, valueEnd + len([]rune(Delimiter)), true
}

func (a arena) slice(from, to int) string {
	return a[from:to].String()
}

// splice replaces a[from:to] with repl. Replacement characters are spread
// evenly over the origins of the characters they replace; an insertion
// inherits the origin of the character before it.
func (a arena) splice(from, to int, repl string) arena {
	rs := []rune(repl)
	deleted := a[from:to]

	cells := make([]cell, len(rs))
	switch {
	case len(deleted) > 0:
		n := float64(len(rs))
		span := float64(len(deleted) - 1)
		for i, r := range rs {
			pos := (float64(i+1)/n - 1/(2*n)) * span
			cells[i] = cell{origin: deleted[int(math.Round(pos))].origin, ch: r}
		}
	default:
		origin := 0
		if from > 0 {
			origin = a[from-1].origin
		} else if from < len(a) {
			origin = a[from].origin
		}
		for i, r := range rs {
			cells[i] = cell{origin: origin, ch: r}
		}
	}

	out := make(arena, 0, len(a)-len(deleted)+len(cells))
	out = append(out, a[:from]...)
	out = append(out, cells...)
	out = append(out, a[to:]...)
	return out
}

func (a arena) regroup(n int) []string {
	parts := make([]strings.Builder, n)
	for _, c := range a {
		parts[c.origin].WriteRune(c.ch)
	}
	out := make([]string, n)
	for i := range parts {
		out[i] = parts[i].String()
	}
	return out
}

// Value returns the value of the first tag called name.
func Value(texts []string, name string) (string, bool) {
	a := build(texts)
	_, vs, ve, _, ok := a.find(name)
	if !ok {
		return "", false
	}
	return a.slice(vs, ve), true
}

func Contains(texts []string, name string) bool {
	_, ok := Value(texts, name)
	return ok
}

// Delete removes the first tag called name. The result has len(texts)
// elements.
func Delete(texts []string, name string) []string {
	a := build(texts)
	start, _, _, end, ok := a.find(name)
	if !ok {
		return texts
	}
	return a.splice(start, end, "").regroup(len(texts))
}

// Update sets the value of the tag called name. An existing value is
// replaced in place; otherwise the tag is prepended to the first text,
// followed by a space when the comment text is non-empty and does not
// already start with whitespace.
func Update(texts []string, name, value string) []string {
	if len(texts) == 0 {
		texts = []string{""}
	}
	a := build(texts)
	if _, vs, ve, _, ok := a.find(name); ok {
		return a.splice(vs, ve, value).regroup(len(texts))
	}

	prefix := Format(name, value)
	if len(a) > 0 && !unicode.IsSpace(a[0].ch) {
		prefix += " "
	}
	cells := make(arena, 0, len(a)+len(prefix))
	for _, r := range prefix {
		cells = append(cells, cell{origin: 0, ch: r})
	}
	return append(cells, a...).regroup(len(texts))
}

// Replace substitutes every occurrence of old with repl across texts.
func Replace(texts []string, old, repl string) []string {
	pattern := []rune(old)
	if len(pattern) == 0 {
		return texts
	}
	a := build(texts)
	width := len([]rune(repl))
	for i := a.index(pattern, 0); i >= 0; i = a.index(pattern, i+width) {
		a = a.splice(i, i+len(pattern), repl)
	}
	return a.regroup(len(texts))
}
