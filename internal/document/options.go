package document

import "regexp"

// DefaultNewlines is the number of newlines written after a new entry.
const DefaultNewlines = 2

// Options configure parsing and editing of one document.
type Options struct {
	// NewEntryNewlines is the spacing written after the `;` of new and
	// normalized entries.
	NewEntryNewlines int
	// DropDuplicates keeps the first of repeated keys instead of failing.
	DropDuplicates bool
	// HeaderPatterns decide whether the leading comment is a file header.
	HeaderPatterns []*regexp.Regexp
}

// DefaultHeaderPatterns match a file name, a "Created by X on DATE" line
// or a comment that starts with the word header.
func DefaultHeaderPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`[A-Za-z0-9]+\.strings`),
		regexp.MustCompile(`(?i)Created\s+by\s+.+?\s+on\s+[0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4}\.?`),
		regexp.MustCompile(`(?i)^\s*header\b`),
	}
}

func DefaultOptions() Options {
	return Options{
		NewEntryNewlines: DefaultNewlines,
		HeaderPatterns:   DefaultHeaderPatterns(),
	}
}

// CompileHeaderPatterns compiles expressions for Options.HeaderPatterns.
func CompileHeaderPatterns(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		re, err := regexp.Compile(e)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}
