package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"strings-toolkit/internal/catalog"
	"strings-toolkit/internal/escape"
	"strings-toolkit/internal/filewalker"
	"strings-toolkit/internal/graph"
	"strings-toolkit/internal/tag"
)

var errLocaleMissing = errors.New("locale missing in destination")

func copyCmd(f *flags, move bool) *cobra.Command {
	use, short := "copy", "Copy a key with its comments to another file"
	if move {
		use, short = "move", "Move a key with its comments to another file"
	}
	var relinkAll bool
	cmd := &cobra.Command{
		Use:   use + " <root> <file> <key> <to-file> [as]",
		Short: short,
		Args:  cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			if len(args) == 4 {
				args = append(args, args[2])
			}
			keys, err := f.texts(args[2], args[4])
			if err != nil {
				return err
			}
			names := []string{args[1], args[3]}
			if relinkAll {
				names = nil
			}
			s, err := f.open(ctx, cmd, args[:1], names)
			if err != nil {
				return err
			}
			return s.close(func() error {
				src, err := s.table(args[1])
				if err != nil {
					return err
				}
				dst, err := s.table(args[3])
				if err != nil {
					return err
				}
				done := 0
				for _, file := range src.Files() {
					if !file.Doc().KeyExists(keys[0]) {
						continue
					}
					target, ok := dst.File(file.Locale)
					if !ok {
						return fmt.Errorf("%w: %s has no %s", errLocaleMissing, dst.Name, file.Locale)
					}
					if move {
						err = file.Doc().MoveAs(keys[0], target.Doc(), keys[1])
					} else {
						err = file.Doc().CopyAs(keys[0], target.Doc(), keys[1])
					}
					if err != nil {
						return err
					}
					done++
				}
				if done == 0 {
					return keyNotFound(keys[0], src.Name)
				}
				if !move {
					return nil
				}
				_, err = relink(s.cat, src.Name, keys[0], dst.Name, keys[1])
				return err
			}())
		},
	}
	if move {
		cmd.Flags().BoolVar(&relinkAll, "relink", false, "Load every file so link tags pointing at the key are updated everywhere")
	}
	return cmd
}

// relink points every loaded link tag that references fromFile:fromKey at
// toFile:toKey. References written with the file extension keep it.
func relink(cat *catalog.Catalog, fromFile string, fromKey escape.Text, toFile string, toKey escape.Text) (int, error) {
	if fromFile == toFile && fromKey.Equal(toKey) {
		return 0, nil
	}
	total := 0
	for _, ext := range []string{"", filewalker.Extension} {
		old := tag.Format(graph.LinkTag, catalog.FormatFileKey(fromFile+ext, fromKey.Encoded()))
		repl := tag.Format(graph.LinkTag, catalog.FormatFileKey(toFile+ext, toKey.Encoded()))
		for _, t := range cat.Tables() {
			for _, file := range t.Files() {
				n, err := file.Doc().ReplaceInComments(old, repl)
				if err != nil {
					return total, fmt.Errorf("%s: %w", file.Path, err)
				}
				total += n
			}
		}
	}
	if total > 0 {
		log.Info().Str("from", catalog.FormatFileKey(fromFile, fromKey.Encoded())).Str("to", catalog.FormatFileKey(toFile, toKey.Encoded())).Int("entries", total).Msg("Updated link tags")
	}
	return total, nil
}

func linkCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "link <root> <file> <key> <link-file> <link-key>",
		Short: "Tag a key's comment with a reference to another key",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			keys, err := f.texts(args[2], args[4])
			if err != nil {
				return err
			}
			s, err := f.open(ctx, cmd, args[:1], []string{args[1], args[3]})
			if err != nil {
				return err
			}
			return s.close(func() error {
				src, err := s.table(args[1])
				if err != nil {
					return err
				}
				dst, err := s.table(args[3])
				if err != nil {
					return err
				}
				ref := catalog.FormatFileKey(dst.Name, keys[1].Encoded())
				for _, file := range src.Files() {
					target, ok := dst.File(file.Locale)
					if !ok {
						return fmt.Errorf("%w: %s has no %s", errLocaleMissing, dst.Name, file.Locale)
					}
					if !target.Doc().KeyExists(keys[1]) {
						return fmt.Errorf("link target: %w", keyNotFound(keys[1], dst.Name+" ["+file.Locale+"]"))
					}
					if err := file.Doc().SetTag(keys[0], graph.LinkTag, ref); err != nil {
						return fmt.Errorf("%s: %w", file.Path, err)
					}
				}
				return nil
			}())
		},
	}
}

func unlinkCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <root> <file> <key>",
		Short: "Remove the link tag of a key",
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
			t, err := s.table(args[1])
			if err != nil {
				return s.close(err)
			}
			for _, file := range t.Files() {
				file.Doc().DeleteTag(key, graph.LinkTag)
			}
			return s.close(nil)
		},
	}
}
