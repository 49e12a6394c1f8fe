package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"strings-toolkit/internal/catalog"
	"strings-toolkit/internal/config"
	"strings-toolkit/internal/graph"
	"strings-toolkit/internal/store"
)

func exportCmd(f *flags) *cobra.Command {
	var format string
	var force bool
	cmd := &cobra.Command{
		Use:   "export <root> <dest>",
		Short: "Write every key, value and comment to a JSON or YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			dest := args[1]
			if _, err := os.Stat(dest); err == nil && !force {
				return fmt.Errorf("export: %s already exists (use --force)", dest)
			}
			s, err := f.open(ctx, cmd, args[:1], nil)
			if err != nil {
				return err
			}
			defer s.rb.Close()

			data, err := s.cat.Export().Marshal(format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			log.Info().Str("path", dest).Str("format", format).Int("files", len(s.cat.Tables())).Msg("Exported strings")
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", catalog.FormatJSONPretty, "Output format: json, json-pretty or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing destination")
	return cmd
}

func publishCmd(f *flags) *cobra.Command {
	var pruneFiles bool
	cmd := &cobra.Command{
		Use:   "publish <root>...",
		Short: "Publish all keys to PostgreSQL and their links to Neo4j",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			s, err := f.open(ctx, cmd, args, nil)
			if err != nil {
				return err
			}
			defer s.rb.Close()

			pgPool, neo4jDriver, err := initDependencies(ctx, s.cfg)
			if err != nil {
				return err
			}
			defer pgPool.Close()
			defer neo4jDriver.Close(ctx)

			st := store.New(pgPool, s.cfg.PublishBatchSize)
			if err := st.EnsureSchema(ctx); err != nil {
				return err
			}
			if _, err := st.Publish(ctx, store.NewSnapshot(s.cat.Export()), pruneFiles); err != nil {
				return err
			}

			nodes, links, problems := graph.Collect(s.cat)
			for _, p := range problems {
				log.Warn().Err(p).Msg("Skipping invalid link tag")
			}
			gb := graph.NewGraphBuilder(neo4jDriver)
			if err := gb.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensure graph schema: %w", err)
			}
			if err := gb.Publish(ctx, nodes, links); err != nil {
				return err
			}

			log.Info().
				Int("files", len(s.cat.Tables())).
				Int("keys", len(nodes)).
				Int("links", len(links)).
				Msg("Publish complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&pruneFiles, "prune-files", false, "Also delete published rows of files that are no longer loaded")
	return cmd
}

func linksCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "links <file> <key>",
		Short: "Show published links from and to a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			key, err := f.text(args[1])
			if err != nil {
				return err
			}
			cfg := config.Load()
			driver, err := connectNeo4j(ctx, cfg)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			id := catalog.FormatFileKey(args[0], key.Encoded())
			links, err := graph.NewGraphQuerier(driver).Links(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range links {
				if l.Incoming {
					fmt.Fprintf(out, "<- %s [%s]\n", l.From, l.Locale)
				} else {
					fmt.Fprintf(out, "-> %s [%s]\n", l.To, l.Locale)
				}
			}
			return nil
		},
	}
}

// initDependencies connects to PostgreSQL and Neo4j.
func initDependencies(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, neo4j.DriverWithContext, error) {
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	neo4jDriver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		pgPool.Close()
		return nil, nil, err
	}
	return pgPool, neo4jDriver, nil
}

func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("verify Neo4j connectivity: %w", err), driver.Close(ctx))
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}
