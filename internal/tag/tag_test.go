package tag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		texts []string
		old   string
		repl  string
		want  []string
	}{
		{texts: []string{"1", "2"}, old: "12", repl: "3456", want: []string{"34", "56"}},
		{texts: []string{"1", "2"}, old: "12", repl: "34567", want: []string{"34", "567"}},
		{texts: []string{"1", "2"}, old: "12", repl: "345678", want: []string{"345", "678"}},
		{texts: []string{"12", "34"}, old: "1234", repl: "56", want: []string{"5", "6"}},
		{texts: []string{"12", "34"}, old: "1234", repl: "567", want: []string{"5", "67"}},
		{texts: []string{"12", "34"}, old: "1234", repl: "", want: []string{"", ""}},
		{texts: []string{"123456", "345678"}, old: "63", repl: "", want: []string{"12345", "45678"}},
		{texts: []string{"aXa", "XX"}, old: "X", repl: "yy", want: []string{"ayya", "yyyy"}},
		{texts: []string{"abc"}, old: "", repl: "z", want: []string{"abc"}},
	}
	for _, tt := range tests {
		got := Replace(tt.texts, tt.old, tt.repl)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Replace(%q, %q, %q) mismatch (-want +got):\n%s", tt.texts, tt.old, tt.repl, diff)
		}
	}
}

func TestValue(t *testing.T) {
	texts := []string{"@@hello=###123###", "45"}
	if !Contains(texts, "hello") {
		t.Errorf("Contains(hello) = false")
	}
	if Contains(texts, "hello1") {
		t.Errorf("Contains(hello1) = true")
	}
	if v, ok := Value(texts, "hello"); !ok || v != "123" {
		t.Errorf("Value(hello) = %q, %v", v, ok)
	}
	if _, ok := Value([]string{"@@open=###no close"}, "open"); ok {
		t.Errorf("Value() found an unterminated tag")
	}
	split := []string{"see @@link=###Main.str", "ings:title### end"}
	if v, _ := Value(split, "link"); v != "Main.strings:title" {
		t.Errorf("Value() across texts = %q", v)
	}
}

func TestDelete(t *testing.T) {
	got := Delete([]string{"@@hello=###123###", "45"}, "hello")
	if diff := cmp.Diff([]string{"", "45"}, got); diff != "" {
		t.Errorf("Delete() mismatch (-want +got):\n%s", diff)
	}
	same := []string{"nothing here"}
	if diff := cmp.Diff(same, Delete(same, "hello")); diff != "" {
		t.Errorf("Delete() of absent tag changed text:\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		tag   string
		value string
		want  []string
	}{
		{
			name:  "existing",
			texts: []string{"@@hello=###123###", "45"},
			tag:   "hello", value: "NEW",
			want: []string{"@@hello=###NEW###", "45"},
		},
		{
			name:  "absent prepends with space",
			texts: []string{"@@hello1=###123###", "45"},
			tag:   "hello", value: "NEW",
			want: []string{"@@hello=###NEW### @@hello1=###123###", "45"},
		},
		{
			name:  "single text",
			texts: []string{"@@hello=###123###"},
			tag:   "hello", value: "NEW",
			want: []string{"@@hello=###NEW###"},
		},
		{
			name:  "empty text",
			texts: []string{""},
			tag:   "hello", value: "NEW",
			want: []string{"@@hello=###NEW###"},
		},
		{
			name:  "leading whitespace kept",
			texts: []string{" note "},
			tag:   "a", value: "b",
			want: []string{"@@a=###b### note "},
		},
		{
			name:  "empty value grows in place",
			texts: []string{"x @@a=######", "y"},
			tag:   "a", value: "long",
			want: []string{"x @@a=###long###", "y"},
		},
		{
			name:  "value spanning texts",
			texts: []string{"@@a=###12", "34###"},
			tag:   "a", value: "xyz",
			want: []string{"@@a=###x", "yz###"},
		},
		{
			name:  "no texts",
			texts: nil,
			tag:   "a", value: "b",
			want: []string{"@@a=###b###"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Update(tt.texts, tt.tag, tt.value)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Update() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
