package escape

import "testing"

func TestTextForms(t *testing.T) {
	enc, err := FromEncoded(`\u0041`)
	if err != nil {
		t.Fatalf("FromEncoded() error = %v", err)
	}
	if enc.Raw() != "A" || enc.Encoded() != `\u0041` {
		t.Errorf("FromEncoded() = %v", enc)
	}
	if enc.Equal(FromRaw("A")) {
		t.Errorf("encoded %v should not equal raw A", enc)
	}
	if enc.Compare(FromRaw("A")) != 0 {
		t.Errorf("Compare() should only look at the decoded form")
	}
	if !FromRaw("a").Less(FromRaw("b")) {
		t.Errorf("Less(a, b) = false")
	}
	if _, err := FromEncodedLine("a\nb"); err == nil {
		t.Errorf("FromEncodedLine() accepted a literal newline")
	}
	if got := FromRaw("x\"y").Encoded(); got != `x\"y` {
		t.Errorf("FromRaw().Encoded() = %q", got)
	}
}

func TestUntranslated(t *testing.T) {
	v := FromRaw("#Hello")
	if !v.IsUntranslated("") {
		t.Fatalf("IsUntranslated() = false for %v", v)
	}
	if got := v.MakeTranslated("").Raw(); got != "Hello" {
		t.Errorf("MakeTranslated() = %q, want Hello", got)
	}
	if got := FromRaw("Hello").MakeUntranslated("").Raw(); got != "#Hello" {
		t.Errorf("MakeUntranslated() = %q, want #Hello", got)
	}
	if got := v.MakeUntranslated(""); !got.Equal(v) {
		t.Errorf("MakeUntranslated() on marked value = %v", got)
	}

	enc, _ := FromEncoded(`TODO:\u0041`)
	got := enc.MakeTranslated("TODO:")
	if got.Encoded() != `\u0041` || got.Source() != FromEncodedSource {
		t.Errorf("MakeTranslated() lost the encoded form: %v", got)
	}
}
