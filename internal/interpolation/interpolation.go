// Package interpolation finds printf-style format placeholders in localized
// values and checks that translations keep them.
package interpolation

import (
	"regexp"
	"slices"
	"strings"
)

// Placeholder is a format specifier found in a value.
type Placeholder struct {
	Original string
	Position int // explicit argument position from "%1$@", or 0
	Verb     string
	Start    int
	End      int
}

// patterns to detect format specifiers in localized strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`%([1-9][0-9]*\$)?[-+0#']*[0-9]*(\.[0-9]+)?(hh|h|ll|l|q|L|z|t|j)?[@dDiuUxXoOfFeEgGcCsSpaA]`),
	regexp.MustCompile(`%%`), // escaped percent literal
}

// Find returns all placeholders in text ordered by position. Escaped
// percent signs are skipped.
func Find(text string) []Placeholder {
	var all []Placeholder
	for i, p := range patterns {
		for _, loc := range p.FindAllStringSubmatchIndex(text, -1) {
			ph := Placeholder{Original: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]}
			if i == 1 {
				ph.Verb = "%"
			} else {
				ph.Verb = ph.Original[len(ph.Original)-1:]
				if loc[2] >= 0 {
					ph.Position = atoi(text[loc[2] : loc[3]-1])
				}
			}
			all = append(all, ph)
		}
	}
	slices.SortFunc(all, func(a, b Placeholder) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return (b.End - b.Start) - (a.End - a.Start)
	})

	// Remove overlapping matches (keep the first/longest).
	var out []Placeholder
	lastEnd := -1
	for _, ph := range all {
		if ph.Start < lastEnd {
			continue
		}
		lastEnd = ph.End
		if ph.Verb == "%" {
			continue
		}
		out = append(out, ph)
	}
	return out
}

// Signature is the normalized argument list of a value: the verb of every
// argument in position order. Positional and sequential forms of the same
// arguments produce equal signatures.
func Signature(text string) []string {
	phs := Find(text)
	byPos := map[int]string{}
	next := 1
	maxPos := 0
	for _, ph := range phs {
		pos := ph.Position
		if pos == 0 {
			pos = next
			next++
		}
		byPos[pos] = normalizeVerb(ph.Verb)
		maxPos = max(maxPos, pos)
	}
	sig := make([]string, maxPos)
	for i := range sig {
		sig[i] = byPos[i+1]
	}
	return sig
}

// Mismatch reports whether translated uses a different argument list than
// source.
func Mismatch(source, translated string) bool {
	return !slices.Equal(Signature(source), Signature(translated))
}

func normalizeVerb(v string) string {
	switch v {
	case "i", "D":
		return "d"
	case "U":
		return "u"
	case "S":
		return "s"
	}
	return strings.ToLower(v)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
