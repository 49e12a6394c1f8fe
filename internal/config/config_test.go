package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"STRINGS_NEWLINES", "STRINGS_DROP_DUPLICATES", "STRINGS_HEADER_PATTERNS", "WORKER_COUNT", "PUBLISH_BATCH_SIZE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Newlines != 2 || c.DropDuplicates || c.WorkerCount != 8 || c.PublishBatchSize != 500 || c.UntranslatedMarker != "#" {
		t.Errorf("FromEnv() = %+v", c)
	}
	opts, err := c.DocumentOptions()
	if err != nil {
		t.Fatalf("DocumentOptions() error = %v", err)
	}
	if len(opts.HeaderPatterns) != 3 {
		t.Errorf("default header patterns = %d, want 3", len(opts.HeaderPatterns))
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STRINGS_NEWLINES", "1")
	t.Setenv("STRINGS_DROP_DUPLICATES", "true")
	t.Setenv("STRINGS_HEADER_PATTERNS", `Copyright;; ^\s*File:`)
	t.Setenv("WORKER_COUNT", "not a number")

	c := FromEnv()
	if c.Newlines != 1 || !c.DropDuplicates {
		t.Errorf("FromEnv() = %+v", c)
	}
	if c.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want fallback 8", c.WorkerCount)
	}
	opts, err := c.DocumentOptions()
	if err != nil {
		t.Fatalf("DocumentOptions() error = %v", err)
	}
	if len(opts.HeaderPatterns) != 2 || !opts.HeaderPatterns[1].MatchString(" File: x") {
		t.Errorf("HeaderPatterns = %v", opts.HeaderPatterns)
	}
	if opts.NewEntryNewlines != 1 || !opts.DropDuplicates {
		t.Errorf("DocumentOptions() = %+v", opts)
	}
}

func TestDocumentOptionsBadPattern(t *testing.T) {
	c := &Config{Newlines: 2, HeaderPatterns: []string{"("}}
	if _, err := c.DocumentOptions(); err == nil {
		t.Errorf("DocumentOptions() accepted an invalid pattern")
	}
}
