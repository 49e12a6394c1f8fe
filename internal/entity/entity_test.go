package entity

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"strings-toolkit/internal/token"
)

func build(t *testing.T, text string) []Entity {
	t.Helper()
	toks, err := token.Tokenize(text)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	ents, err := Build(toks)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ents
}

type shape struct {
	Kind   Kind
	Tokens int
	Text   string
}

func shapes(ents []Entity) []shape {
	out := make([]shape, 0, len(ents))
	for _, e := range ents {
		out = append(out, shape{Kind: e.Kind, Tokens: len(e.Tokens), Text: e.Text()})
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []shape
	}{
		{
			name: "key value",
			in:   `"a" = "1";`,
			want: []shape{
				{StringLiteral, 1, `"a"`},
				{Spacing, 1, " "},
				{Service, 1, "="},
				{Spacing, 1, " "},
				{StringLiteral, 1, `"1"`},
				{Service, 1, ";"},
			},
		},
		{
			name: "adjacent comments merge",
			in:   "\n/* a *//* b */\n",
			want: []shape{
				{Spacing, 1, "\n"},
				{Comment, 2, "/* a *//* b */"},
				{Spacing, 1, "\n"},
			},
		},
		{
			name: "leading block comments split",
			in:   "/* file.strings *//* key */",
			want: []shape{
				{Comment, 1, "/* file.strings */"},
				{Comment, 1, "/* key */"},
			},
		},
		{
			name: "leading line comments split",
			in:   "/* head *///one",
			want: []shape{
				{Comment, 1, "/* head */"},
				{Comment, 1, "//one"},
			},
		},
		{
			name: "only line comments stay together",
			in:   "//a",
			want: []shape{{Comment, 1, "//a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, shapes(build(t, tt.in))); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildRejectsAdjacentDuplicates(t *testing.T) {
	for _, in := range []string{`"a"=="1";`, `"a"="1";;`, `"a""b"`} {
		toks, err := token.Tokenize(in)
		if err != nil {
			t.Fatalf("Tokenize(%q) error = %v", in, err)
		}
		_, err = Build(toks)
		if !errors.Is(err, ErrUnexpectedToken) {
			t.Errorf("Build(%q) error = %v, want %v", in, err, ErrUnexpectedToken)
		}
	}
}

func TestCommentTags(t *testing.T) {
	ents := build(t, "/* see @@link=###Main.strings:title### *//* more */")
	c := ents[0]
	if c.Kind != Comment || len(c.Tokens) != 2 {
		t.Fatalf("unexpected entity %v", c)
	}
	if v, ok := c.TagValue("link"); !ok || v != "Main.strings:title" {
		t.Errorf("TagValue() = %q, %v", v, ok)
	}

	updated, err := c.WithTag("link", "Other.strings:x")
	if err != nil {
		t.Fatalf("WithTag() error = %v", err)
	}
	if got, want := updated.Text(), "/* see @@link=###Other.strings:x### *//* more */"; got != want {
		t.Errorf("WithTag() = %q, want %q", got, want)
	}
	if got := len(updated.Tokens); got != 2 {
		t.Errorf("WithTag() token count = %d, want 2", got)
	}

	removed := c.WithoutTag("link")
	if got, want := removed.Text(), "/* see  *//* more */"; got != want {
		t.Errorf("WithoutTag() = %q, want %q", got, want)
	}
	if c.Text() != "/* see @@link=###Main.strings:title### *//* more */" {
		t.Errorf("original entity was modified: %q", c.Text())
	}
	if got := c.CommentText(); got != " see @@link=###Main.strings:title###   more " {
		t.Errorf("CommentText() = %q", got)
	}
}

func TestWithTagFitsComment(t *testing.T) {
	block, err := BlockComment(" note ").WithTag("link", "x*/y")
	if err != nil {
		t.Fatalf("WithTag(block) error = %v", err)
	}
	if got, want := block.Text(), `/*@@link=###x*\/y### note */`; got != want {
		t.Errorf("WithTag(block) = %q, want %q", got, want)
	}

	if _, err := LineComment(" ").WithTag("link", "x\ny"); !errors.Is(err, ErrLineBreak) {
		t.Errorf("WithTag(line) error = %v, want %v", err, ErrLineBreak)
	}
	line, err := LineComment(" ").WithTag("link", "x*/y")
	if err != nil {
		t.Fatalf("WithTag(line) error = %v", err)
	}
	if got, want := line.Text(), "//@@link=###x*/y### "; got != want {
		t.Errorf("WithTag(line) = %q, want %q", got, want)
	}

	if _, err := LineComment(" a b ").ReplaceText("a", "\n"); !errors.Is(err, ErrLineBreak) {
		t.Errorf("ReplaceText() error = %v, want %v", err, ErrLineBreak)
	}
}

func TestIsHeaderCandidate(t *testing.T) {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`[A-Za-z0-9]+\.strings`),
		regexp.MustCompile(`(?i)Created\s+by\s+.+?\s+on\s+[0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4}\.?`),
	}
	tests := []struct {
		in   string
		want bool
	}{
		{in: "/* Localizable.strings */", want: true},
		{in: "// created by Jane Doe on 7/18/21.", want: true},
		{in: "/* Title of the screen */", want: false},
	}
	for _, tt := range tests {
		ents := build(t, tt.in)
		if got := ents[0].IsHeaderCandidate(patterns); got != tt.want {
			t.Errorf("IsHeaderCandidate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Spaces(" ").IsHeaderCandidate(patterns) {
		t.Errorf("spacing reported as header candidate")
	}
}

func TestConstructors(t *testing.T) {
	if got := Newlines(3).Text(); got != "\n\n\n" {
		t.Errorf("Newlines(3) = %q", got)
	}
	if got := LineComment(" x").Text(); got != "// x" {
		t.Errorf("LineComment() = %q", got)
	}
	if !EqualsSign().IsEquals() || EqualsSign().IsSemicolon() {
		t.Errorf("EqualsSign() classification wrong")
	}
	if !Semicolon().IsSemicolon() {
		t.Errorf("Semicolon() classification wrong")
	}
}
