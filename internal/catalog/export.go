package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Record is one key of one locale in exported form.
type Record struct {
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value" yaml:"value"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Export maps file name to locale to the locale's records in file order.
type Export map[string]map[string][]Record

// Export collects every key of every table. Keys and values are raw text,
// comments are trimmed.
func (c *Catalog) Export() Export {
	out := Export{}
	for _, t := range c.tables {
		locales := map[string][]Record{}
		for locale, f := range t.files {
			records := []Record{}
			for _, kv := range f.doc.KeyValues() {
				records = append(records, Record{
					Key:     kv.KeyText().Raw(),
					Value:   kv.ValueText().Raw(),
					Comment: strings.TrimSpace(kv.CommentText()),
				})
			}
			locales[locale] = records
		}
		out[t.Name] = locales
	}
	return out
}

const (
	FormatJSON       = "json"
	FormatJSONPretty = "json-pretty"
	FormatYAML       = "yaml"
)

// Marshal encodes e in one of the export formats.
func (e Export) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.Marshal(e)
	case FormatJSONPretty:
		return json.MarshalIndent(e, "", "  ")
	case FormatYAML:
		return yaml.Marshal(e)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}
