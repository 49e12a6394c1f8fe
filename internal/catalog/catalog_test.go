package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"strings-toolkit/internal/document"
	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/filewalker"
)

var raw = escape.FromRaw

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func openCatalog(t *testing.T, root string) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filewalker.NewWalker("en"), []string{root}, document.DefaultOptions(), 2)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return c
}

func rawKeys(keys []escape.Text) []string {
	var out []string
	for _, k := range keys {
		out = append(out, k.Raw())
	}
	return out
}

func fixture(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en.lproj", "Main.strings"), "\"a\" = \"A\";\n\"b\" = \"B\";\n")
	writeFile(t, filepath.Join(root, "de.lproj", "Main.strings"), "\"b\" = \"Be\";\n\"z\" = \"Zet\";\n")
	writeFile(t, filepath.Join(root, "en.lproj", "Other.strings"), "\"x\" = \"X\";\n")
	return root
}

func TestOpen(t *testing.T) {
	c := openCatalog(t, fixture(t))
	var names []string
	for _, tbl := range c.Tables() {
		names = append(names, tbl.Name)
	}
	if diff := cmp.Diff([]string{"Main", "Other"}, names); diff != "" {
		t.Errorf("Tables() mismatch (-want +got):\n%s", diff)
	}
	main, err := c.Find("Main")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if diff := cmp.Diff([]string{"de", "en"}, main.Locales()); diff != "" {
		t.Errorf("Locales() mismatch (-want +got):\n%s", diff)
	}
	if _, err := c.Find("Missing"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Find(Missing) error = %v, want %v", err, ErrTableNotFound)
	}
}

func TestOpenReportsParseErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en.lproj", "Bad.strings"), "\"a\" = ;")
	_, err := Open(context.Background(), filewalker.NewWalker("en"), []string{root}, document.DefaultOptions(), 1)
	if !errors.Is(err, document.ErrUnexpectedEntity) {
		t.Errorf("Open() error = %v, want %v", err, document.ErrUnexpectedEntity)
	}
}

func TestOpenDuplicateNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one", "en.lproj", "Main.strings"), "")
	writeFile(t, filepath.Join(root, "two", "en.lproj", "Main.strings"), "")
	_, err := Open(context.Background(), filewalker.NewWalker("en"), []string{root}, document.DefaultOptions(), 1)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Open() error = %v, want %v", err, ErrDuplicateName)
	}
}

func TestTableKeys(t *testing.T) {
	c := openCatalog(t, fixture(t))
	main, _ := c.Table("Main")

	if diff := cmp.Diff([]string{"a", "b", "z"}, rawKeys(main.AllKeys())); diff != "" {
		t.Errorf("AllKeys() mismatch (-want +got):\n%s", diff)
	}
	absent := map[string][]string{}
	for locale, keys := range main.AbsentKeys() {
		absent[locale] = rawKeys(keys)
	}
	if diff := cmp.Diff(map[string][]string{"de": {"a"}, "en": {"z"}}, absent); diff != "" {
		t.Errorf("AbsentKeys() mismatch (-want +got):\n%s", diff)
	}

	if n := main.AddAbsentKeys(raw("#")); n != 2 {
		t.Errorf("AddAbsentKeys() = %d, want 2", n)
	}
	if len(main.AbsentKeys()) != 0 {
		t.Errorf("AbsentKeys() after AddAbsentKeys = %v", main.AbsentKeys())
	}
	de, _ := main.File("de")
	if v, _ := de.Doc().Value(raw("a")); v.Raw() != "#" {
		t.Errorf("filled value = %q, want #", v.Raw())
	}
}

func TestSyncKeys(t *testing.T) {
	root := fixture(t)
	c := openCatalog(t, root)
	main, _ := c.Table("Main")

	if err := main.SyncKeys("en", raw("TODO")); err != nil {
		t.Fatalf("SyncKeys() error = %v", err)
	}
	de, _ := main.File("de")
	if diff := cmp.Diff([]string{"b", "a"}, rawKeys(de.Doc().Keys())); diff != "" {
		t.Errorf("de keys mismatch (-want +got):\n%s", diff)
	}
	en, _ := main.File("en")
	if en.Doc().Changed() {
		t.Errorf("source locale changed by SyncKeys")
	}

	if err := main.SyncKeys("fr", raw("")); !errors.Is(err, ErrLocaleNotFound) {
		t.Errorf("SyncKeys(fr) error = %v, want %v", err, ErrLocaleNotFound)
	}

	if err := c.Save(false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := readFile(t, filepath.Join(root, "en.lproj", "Main.strings")); got != "\"a\" = \"A\";\n\"b\" = \"B\";\n" {
		t.Errorf("unchanged file rewritten: %q", got)
	}
	reopened := openCatalog(t, root)
	tbl, _ := reopened.Table("Main")
	if len(tbl.AbsentKeys()) != 0 {
		t.Errorf("AbsentKeys() after save = %v", tbl.AbsentKeys())
	}
}

func TestSaveOnlyWhenChanged(t *testing.T) {
	root := fixture(t)
	c := openCatalog(t, root)
	var written []string
	c.OnWrite(func(path string) error {
		written = append(written, filepath.Base(filepath.Dir(path)))
		return nil
	})

	other, _ := c.Table("Other")
	f, _ := other.File("en")
	if ok, err := f.Save(false); err != nil || ok {
		t.Errorf("Save(false) = %v, %v, want no write", ok, err)
	}
	if ok, err := f.Save(true); err != nil || !ok {
		t.Errorf("Save(true) = %v, %v, want write", ok, err)
	}

	main, _ := c.Table("Main")
	main.Sort(false)
	if main.Changed() {
		t.Errorf("sorting sorted tables changed them")
	}
	de, _ := main.File("de")
	de.Doc().SetValue(raw("b"), raw("Bee"))
	if err := c.Save(false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if diff := cmp.Diff([]string{"en.lproj", "de.lproj"}, written); diff != "" {
		t.Errorf("written files mismatch (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(root, "de.lproj", "Main.strings")); got != "\"b\" = \"Bee\";\n\"z\" = \"Zet\";\n" {
		t.Errorf("saved content = %q", got)
	}
}

func TestWriteHookErrorStopsSave(t *testing.T) {
	root := fixture(t)
	c := openCatalog(t, root)
	hookErr := errors.New("no")
	c.OnWrite(func(string) error { return hookErr })
	main, _ := c.Table("Main")
	en, _ := main.File("en")
	en.Doc().RemoveKey(raw("a"))
	if err := c.Save(false); !errors.Is(err, hookErr) {
		t.Errorf("Save() error = %v, want %v", err, hookErr)
	}
	if got := readFile(t, filepath.Join(root, "en.lproj", "Main.strings")); got != "\"a\" = \"A\";\n\"b\" = \"B\";\n" {
		t.Errorf("file written despite hook error: %q", got)
	}
}

func TestParseFileKey(t *testing.T) {
	tests := []struct {
		in        string
		file, key string
		wantErr   error
	}{
		{"Main.strings:key", "Main", "key", nil},
		{"Main:key:with:colons", "Main", "key:with:colons", nil},
		{"hello: ", "hello", " ", nil},
		{"nokey", "", "", ErrMissingSeparator},
		{":key", "", "", ErrEmptyFilename},
		{".strings:key", "", "", ErrEmptyFilename},
		{"Main.strings:", "", "", ErrEmptyKey},
	}
	for _, tt := range tests {
		file, key, err := ParseFileKey(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseFileKey(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			continue
		}
		if file != tt.file || key != tt.key {
			t.Errorf("ParseFileKey(%q) = %q, %q, want %q, %q", tt.in, file, key, tt.file, tt.key)
		}
	}
	if got := FormatFileKey("Main", "k"); got != "Main:k" {
		t.Errorf("FormatFileKey() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en.lproj", "Main.strings"),
		"\"greet\" = \"Hello %@\";\n\"count\" = \"%d items\";\n\"only_en\" = \"x\";\n")
	writeFile(t, filepath.Join(root, "de.lproj", "Main.strings"),
		"\"greet\" = \"Hallo\";\n\"count\" = \"#%d items\";\n")
	c := openCatalog(t, root)
	main, _ := c.Table("Main")

	type found struct {
		Kind   IssueKind
		Locale string
		Key    string
	}
	var got []found
	for _, is := range main.Validate("en", "#") {
		got = append(got, found{is.Kind, is.Locale, is.Key.Raw()})
	}
	want := []found{
		{IssueAbsent, "de", "only_en"},
		{IssueUntranslated, "de", "count"},
		{IssuePlaceholders, "de", "greet"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en.lproj", "Main.strings"), "/* note */\n\"a\" = \"A\\nB\";\n")
	c := openCatalog(t, root)

	e := c.Export()
	want := Export{"Main": {"en": {{Key: "a", Value: "A\nB", Comment: "note"}}}}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}

	data, err := e.Marshal(FormatJSON)
	if err != nil {
		t.Fatalf("Marshal(json) error = %v", err)
	}
	if got := string(data); got != `{"Main":{"en":[{"key":"a","value":"A\nB","comment":"note"}]}}` {
		t.Errorf("Marshal(json) = %s", got)
	}
	if data, err = e.Marshal(FormatYAML); err != nil || len(data) == 0 {
		t.Errorf("Marshal(yaml) = %q, %v", data, err)
	}
	if _, err := e.Marshal("csv"); err == nil {
		t.Errorf("Marshal(csv) accepted an unknown format")
	}
}
