package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func getCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <root> <file> <key>",
		Short: "Print the value of a key in every locale",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			key, err := f.text(args[2])
			if err != nil {
				return err
			}
			s, err := f.open(ctx, cmd, args[:1], []string{args[1]})
			if err != nil {
				return err
			}
			defer s.rb.Close()
			t, err := s.table(args[1])
			if err != nil {
				return err
			}

			found := false
			out := cmd.OutOrStdout()
			for _, file := range t.Files() {
				v, ok := file.Doc().Value(key)
				if !ok {
					continue
				}
				found = true
				if f.unescape {
					fmt.Fprintf(out, "%s\t%s\n", file.Locale, v.Encoded())
				} else {
					fmt.Fprintf(out, "%s\t%s\n", file.Locale, v.Raw())
				}
			}
			if !found {
				return keyNotFound(key, t.Name)
			}
			return nil
		},
	}
}

func setCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <root> <file> <key> <value>",
		Short: "Set the value of a key in every selected locale",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			kv, err := f.texts(args[2], args[3])
			if err != nil {
				return err
			}
			s, err := f.open(ctx, cmd, args[:1], []string{args[1]})
			if err != nil {
				return err
			}
			t, err := s.table(args[1])
			if err != nil {
				return s.close(err)
			}
			for _, file := range t.Files() {
				file.Doc().SetValue(kv[0], kv[1])
			}
			log.Debug().Str("file", t.Name).Str("key", kv[0].Encoded()).Int("locales", len(t.Files())).Msg("Set value")
			return s.close(nil)
		},
	}
}

func renameCmd(f *flags) *cobra.Command {
	var relinkAll bool
	cmd := &cobra.Command{
		Use:   "rename <root> <file> <old> <new>",
		Short: "Rename a key in every locale, keeping its position and comments",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			keys, err := f.texts(args[2], args[3])
			if err != nil {
				return err
			}
			names := []string{args[1]}
			if relinkAll {
				names = nil
			}
			s, err := f.open(ctx, cmd, args[:1], names)
			if err != nil {
				return err
			}
			return s.close(func() error {
				t, err := s.table(args[1])
				if err != nil {
					return err
				}
				renamed := 0
				for _, file := range t.Files() {
					if !file.Doc().KeyExists(keys[0]) {
						continue
					}
					if err := file.Doc().RenameKey(keys[0], keys[1]); err != nil {
						return fmt.Errorf("%s: %w", file.Path, err)
					}
					renamed++
				}
				if renamed == 0 {
					return keyNotFound(keys[0], t.Name)
				}
				_, err = relink(s.cat, t.Name, keys[0], t.Name, keys[1])
				return err
			}())
		},
	}
	cmd.Flags().BoolVar(&relinkAll, "relink", false, "Load every file so link tags pointing at the key are updated everywhere")
	return cmd
}

func deleteCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <root> <file> <key>...",
		Short: "Delete keys from every selected locale",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			keys, err := f.texts(args[2:]...)
			if err != nil {
				return err
			}
			s, err := f.open(ctx, cmd, args[:1], []string{args[1]})
			if err != nil {
				return err
			}
			t, err := s.table(args[1])
			if err != nil {
				return s.close(err)
			}
			for _, file := range t.Files() {
				for _, k := range keys {
					file.Doc().RemoveKey(k)
				}
			}
			return s.close(nil)
		},
	}
}

func commentCmd(f *flags) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "comment <root> <file> <key> [text]",
		Short: "Replace or remove the comment of a key",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !remove && len(args) != 4 {
				return fmt.Errorf("comment text is required unless --remove is set")
			}
			ctx, cancel := setupContext()
			defer cancel()

			key, err := f.text(args[2])
			if err != nil {
				return err
			}
			s, err := f.open(ctx, cmd, args[:1], []string{args[1]})
			if err != nil {
				return err
			}
			return s.close(func() error {
				t, err := s.table(args[1])
				if err != nil {
					return err
				}
				touched := 0
				for _, file := range t.Files() {
					doc := file.Doc()
					if !doc.KeyExists(key) {
						continue
					}
					if remove {
						err = doc.RemoveComment(key)
					} else {
						err = doc.SetComment(key, args[3])
					}
					if err != nil {
						return err
					}
					touched++
				}
				if touched == 0 {
					return keyNotFound(key, t.Name)
				}
				return nil
			}())
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the comment instead of setting it")
	return cmd
}
