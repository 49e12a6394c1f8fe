package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"strings-toolkit/internal/catalog"
	"strings-toolkit/internal/config"
	"strings-toolkit/internal/document"
	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/filewalker"
	"strings-toolkit/internal/rollback"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flags shared by every command.
type flags struct {
	locales        []string
	filenames      []string
	verbose        bool
	unescape       bool
	newlines       int
	dropDuplicates bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:          "stringsctl",
		Short:        "Format-preserving editor for .strings localization tables",
		Long:         "Reads, edits, validates and publishes .strings tables in <locale>.lproj folders without disturbing comments or formatting.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&f.locales, "locale", nil, "Only files for these locales")
	pf.StringSliceVar(&f.filenames, "filename", nil, "Only files with these names (without extension)")
	pf.BoolVar(&f.verbose, "verbose", false, "Log debug output")
	pf.BoolVar(&f.unescape, "unescape", false, "Treat key and value arguments as escaped text")
	pf.IntVar(&f.newlines, "newlines", -1, "Blank lines between new entries (default from STRINGS_NEWLINES)")
	pf.BoolVar(&f.dropDuplicates, "drop-duplicates", false, "Keep the first of duplicate keys instead of failing")

	rootCmd.AddCommand(
		getCmd(f), setCmd(f), renameCmd(f), deleteCmd(f), commentCmd(f),
		sortCmd(f), prettifyCmd(f), syncCmd(f), addAbsentCmd(f), validateCmd(f),
		copyCmd(f, false), copyCmd(f, true), linkCmd(f), unlinkCmd(f),
		exportCmd(f), publishCmd(f), linksCmd(f),
	)
	return rootCmd
}

// text converts a command-line argument into a key or value.
func (f *flags) text(s string) (escape.Text, error) {
	if !f.unescape {
		return escape.FromRaw(s), nil
	}
	t, err := escape.FromEncoded(s)
	if err != nil {
		return escape.Text{}, fmt.Errorf("unescape %q: %w", s, err)
	}
	return t, nil
}

func (f *flags) texts(args ...string) ([]escape.Text, error) {
	out := make([]escape.Text, len(args))
	for i, a := range args {
		t, err := f.text(a)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// session is one loaded catalog with rollback protection for its writes.
type session struct {
	cfg *config.Config
	cat *catalog.Catalog
	rb  *rollback.Rollback
}

// open loads every table under roots. names, when given, replace the
// --filename filter; extraLocales are loaded even when --locale excludes them.
func (f *flags) open(ctx context.Context, cmd *cobra.Command, roots []string, names []string, extraLocales ...string) (*session, error) {
	cfg := config.Load()
	opts, err := cfg.DocumentOptions()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("newlines") {
		opts.NewEntryNewlines = max(f.newlines, 0)
	}
	if f.dropDuplicates {
		opts.DropDuplicates = true
	}

	w := filewalker.NewWalker(cfg.DefaultLocale)
	if len(f.locales) > 0 {
		w.WithLocales(slices.Concat(f.locales, extraLocales)...)
	}
	if len(names) == 0 {
		names = f.filenames
	}
	w.WithNames(names...)

	cat, err := catalog.Open(ctx, w, roots, opts, cfg.WorkerCount)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, cat: cat, rb: rollback.New()}
	cat.OnWrite(s.rb.Protect)
	return s, nil
}

// close saves changed files when err is nil and rolls every written file
// back otherwise.
func (s *session) close(err error) error {
	defer s.rb.Close()
	if err == nil {
		err = s.cat.Save(false)
	}
	if err != nil {
		if rerr := s.rb.Restore(); rerr != nil {
			log.Error().Err(rerr).Msg("Rollback failed")
		}
	}
	return err
}

// table returns the named table or a not-found error.
func (s *session) table(name string) (*catalog.Table, error) {
	return s.cat.Find(name)
}

func (s *session) marker() string {
	return s.cfg.UntranslatedMarker
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func keyNotFound(key escape.Text, file string) error {
	return fmt.Errorf("%w: %s in %s", document.ErrKeyNotFound, key.Encoded(), file)
}
