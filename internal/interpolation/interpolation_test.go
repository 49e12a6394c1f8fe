package interpolation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "Hello", nil},
		{"object", "Hello, %@!", []string{"%@"}},
		{"int and long", "%d of %lld", []string{"%d", "%lld"}},
		{"positional", "%2$@ then %1$@", []string{"%2$@", "%1$@"}},
		{"escaped percent", "100%% done", nil},
		{"percent before verb", "%%d", nil},
		{"width precision", "%5.2f", []string{"%5.2f"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, ph := range Find(tt.text) {
				got = append(got, ph.Original)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Find(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	phs := Find("%2$@ %1$d")
	if len(phs) != 2 || phs[0].Position != 2 || phs[1].Position != 1 {
		t.Errorf("Find() = %+v", phs)
	}
}

func TestMismatch(t *testing.T) {
	tests := []struct {
		source, translated string
		want               bool
	}{
		{"Hello %@", "Bonjour %@", false},
		{"%@ has %d items", "%2$d Elemente hat %1$@", false},
		{"%@ has %d items", "%d items", true},
		{"%d", "%i", false},
		{"%d", "%@", true},
		{"100%%", "100 %%", false},
	}
	for _, tt := range tests {
		if got := Mismatch(tt.source, tt.translated); got != tt.want {
			t.Errorf("Mismatch(%q, %q) = %v, want %v", tt.source, tt.translated, got, tt.want)
		}
	}
}
