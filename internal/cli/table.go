package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"strings-toolkit/internal/catalog"
	"strings-toolkit/internal/escape"
)

var errValidation = errors.New("validation found problems")

// eachTable runs fn over every loaded table. With dryRun set the changes are
// printed as line diffs and nothing is saved.
func eachTable(cmd *cobra.Command, s *session, dryRun bool, fn func(t *catalog.Table) error) error {
	before := map[*catalog.File]string{}
	for _, t := range s.cat.Tables() {
		for _, file := range t.Files() {
			before[file] = file.Doc().Compose()
		}
		if err := fn(t); err != nil {
			return s.close(err)
		}
	}
	if !dryRun {
		return s.close(nil)
	}

	defer s.rb.Close()
	out := cmd.OutOrStdout()
	for _, t := range s.cat.Tables() {
		for _, file := range t.Files() {
			if file.Doc().Changed() {
				printDiff(out, file.Path, before[file], file.Doc().Compose())
			}
		}
	}
	return nil
}

// printDiff writes a line diff of two versions of a file.
func printDiff(w io.Writer, path, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintf(w, "--- %s\n+++ %s\n", path, path)
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprint(w, prefix+line)
			if !strings.HasSuffix(line, "\n") {
				fmt.Fprintln(w)
			}
		}
	}
}

func sortCmd(f *flags) *cobra.Command {
	var caseInsensitive, dryRun bool
	cmd := &cobra.Command{
		Use:   "sort <root>...",
		Short: "Sort keys of every file, keeping comments attached to their keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			s, err := f.open(ctx, cmd, args, nil)
			if err != nil {
				return err
			}
			return eachTable(cmd, s, dryRun, func(t *catalog.Table) error {
				t.Sort(caseInsensitive)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "Compare keys ignoring case")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the changes instead of saving them")
	return cmd
}

func prettifyCmd(f *flags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prettify <root>...",
		Short: "Normalize spacing around every entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			s, err := f.open(ctx, cmd, args, nil)
			if err != nil {
				return err
			}
			return eachTable(cmd, s, dryRun, func(t *catalog.Table) error {
				for _, file := range t.Files() {
					file.Doc().Normalize()
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the changes instead of saving them")
	return cmd
}

func syncCmd(f *flags) *cobra.Command {
	var fill string
	cmd := &cobra.Command{
		Use:   "sync <root> <from-locale>",
		Short: "Make every locale hold exactly the keys of one locale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			from := args[1]
			s, err := f.open(ctx, cmd, args[:1], nil, from)
			if err != nil {
				return err
			}
			value, err := f.fillValue(cmd, s, fill)
			if err != nil {
				return s.close(err)
			}
			for _, t := range s.cat.Tables() {
				if err := t.SyncKeys(from, value); err != nil {
					if errors.Is(err, catalog.ErrLocaleNotFound) {
						log.Warn().Str("file", t.Name).Str("locale", from).Msg("Skipping file without source locale")
						continue
					}
					return s.close(err)
				}
			}
			return s.close(nil)
		},
	}
	cmd.Flags().StringVar(&fill, "fill", "", "Value for added keys (default is the untranslated marker)")
	return cmd
}

func addAbsentCmd(f *flags) *cobra.Command {
	var fill string
	cmd := &cobra.Command{
		Use:   "add-absent <root>...",
		Short: "Add keys present in some locales to the locales missing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			s, err := f.open(ctx, cmd, args, nil)
			if err != nil {
				return err
			}
			value, err := f.fillValue(cmd, s, fill)
			if err != nil {
				return s.close(err)
			}
			added := 0
			for _, t := range s.cat.Tables() {
				added += t.AddAbsentKeys(value)
			}
			log.Info().Int("keys", added).Msg("Added absent keys")
			return s.close(nil)
		},
	}
	cmd.Flags().StringVar(&fill, "fill", "", "Value for added keys (default is the untranslated marker)")
	return cmd
}

// fillValue is --fill when given, otherwise the configured marker.
func (f *flags) fillValue(cmd *cobra.Command, s *session, fill string) (escape.Text, error) {
	if !cmd.Flags().Changed("fill") {
		fill = s.marker()
	}
	return f.text(fill)
}

func validateCmd(f *flags) *cobra.Command {
	var reference string
	cmd := &cobra.Command{
		Use:   "validate <root>...",
		Short: "Report absent keys, untranslated values and placeholder mismatches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			s, err := f.open(ctx, cmd, args, nil)
			if err != nil {
				return err
			}
			defer s.rb.Close()
			if reference == "" {
				reference = s.cfg.DefaultLocale
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, t := range s.cat.Tables() {
				issues := t.Validate(reference, s.marker())
				total += len(issues)
				printIssues(out, issues)
			}
			if total > 0 {
				return fmt.Errorf("%w: %d issues", errValidation, total)
			}
			log.Info().Int("files", len(s.cat.Tables())).Msg("No problems found")
			return nil
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "Locale whose placeholders other locales must match (default STRINGS_DEFAULT_LOCALE)")
	return cmd
}

var issueColors = map[catalog.IssueKind]*color.Color{
	catalog.IssueAbsent:       color.New(color.FgRed),
	catalog.IssueUntranslated: color.New(color.FgYellow),
	catalog.IssuePlaceholders: color.New(color.FgMagenta),
}

func printIssues(w io.Writer, issues []catalog.Issue) {
	for _, is := range issues {
		c := issueColors[is.Kind]
		switch is.Kind {
		case catalog.IssueAbsent:
			c.Fprintf(w, "%s [%s]: key %q is absent\n", is.Table, is.Locale, is.Key.Encoded())
		case catalog.IssueUntranslated:
			c.Fprintf(w, "%s [%s]: value for %q is untranslated (%s)\n", is.Table, is.Locale, is.Key.Encoded(), is.Path)
		case catalog.IssuePlaceholders:
			c.Fprintf(w, "%s [%s]: placeholders of %q differ from the reference locale\n", is.Table, is.Locale, is.Key.Encoded())
		}
	}
}
