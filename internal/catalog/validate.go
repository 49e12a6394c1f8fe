package catalog

import (
	"slices"
	"strings"

	"strings-toolkit/internal/document"
	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/interpolation"
)

type IssueKind int

const (
	IssueAbsent IssueKind = iota
	IssueUntranslated
	IssuePlaceholders
)

func (k IssueKind) String() string {
	switch k {
	case IssueAbsent:
		return "absent"
	case IssueUntranslated:
		return "untranslated"
	case IssuePlaceholders:
		return "placeholders"
	}
	return "unknown"
}

// Issue is one validation finding.
type Issue struct {
	Kind   IssueKind
	Table  string
	Locale string
	Key    escape.Text
	Path   string
}

// Validate reports absent keys, values starting with the untranslated
// marker, and values whose format placeholders differ from the reference
// locale. Issues are ordered by kind, locale and key.
func (t *Table) Validate(reference, marker string) []Issue {
	var issues []Issue
	for locale, keys := range t.AbsentKeys() {
		for _, k := range keys {
			issues = append(issues, Issue{Kind: IssueAbsent, Table: t.Name, Locale: locale, Key: k, Path: t.files[locale].Path})
		}
	}

	ref, hasRef := t.files[reference]
	for locale, f := range t.files {
		for _, kv := range f.doc.KeyValues() {
			key, value := kv.KeyText(), kv.ValueText()
			if value.IsUntranslated(marker) {
				issues = append(issues, Issue{Kind: IssueUntranslated, Table: t.Name, Locale: locale, Key: key, Path: f.Path})
				continue
			}
			if !hasRef || locale == reference {
				continue
			}
			src, ok := ref.doc.Value(key)
			if ok && !src.IsUntranslated(marker) && interpolation.Mismatch(src.Raw(), value.Raw()) {
				issues = append(issues, Issue{Kind: IssuePlaceholders, Table: t.Name, Locale: locale, Key: key, Path: f.Path})
			}
		}
	}

	slices.SortFunc(issues, func(a, b Issue) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		if c := strings.Compare(a.Locale, b.Locale); c != 0 {
			return c
		}
		return document.CaseInsensitive(a.Key, b.Key)
	})
	return issues
}
