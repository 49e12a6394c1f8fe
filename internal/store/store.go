// Package store publishes strings tables to PostgreSQL.
package store

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"strings-toolkit/internal/catalog"
	"strings-toolkit/internal/textutil"
	"strings-toolkit/internal/worker"
)

const schema = `
CREATE TABLE IF NOT EXISTS strings_entries (
	id           TEXT PRIMARY KEY,
	file         TEXT NOT NULL,
	locale       TEXT NOT NULL,
	key          TEXT NOT NULL,
	value        TEXT NOT NULL,
	comment      TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSQL = `
INSERT INTO strings_entries (id, file, locale, key, value, comment, content_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET value = EXCLUDED.value,
    comment = EXCLUDED.comment,
    content_hash = EXCLUDED.content_hash,
    updated_at = now()
WHERE strings_entries.content_hash <> EXCLUDED.content_hash`

const pruneSQL = `DELETE FROM strings_entries WHERE file = $1 AND NOT (id = ANY($2))`

const pruneFilesSQL = `DELETE FROM strings_entries WHERE NOT (file = ANY($1))`

// DefaultBatchSize bounds the upserts sent in one round trip.
const DefaultBatchSize = 500

// Row is one published key of one locale.
type Row struct {
	ID          string
	File        string
	Locale      string
	Key         string
	Value       string
	Comment     string
	ContentHash string
}

// RowID identifies a key of a locale across publishes.
func RowID(file, locale, key string) string {
	return textutil.Hash(file + "\x00" + locale + "\x00" + key)
}

// Snapshot is the published state of a set of tables. Files lists every
// table name, including tables without keys.
type Snapshot struct {
	Files []string
	Rows  []Row
}

// NewSnapshot flattens an export into rows ordered by file, locale and
// position.
func NewSnapshot(e catalog.Export) Snapshot {
	snap := Snapshot{Files: slices.Sorted(maps.Keys(e))}
	for _, file := range snap.Files {
		locales := e[file]
		for _, locale := range slices.Sorted(maps.Keys(locales)) {
			for _, r := range locales[locale] {
				snap.Rows = append(snap.Rows, Row{
					ID:          RowID(file, locale, r.Key),
					File:        file,
					Locale:      locale,
					Key:         r.Key,
					Value:       r.Value,
					Comment:     r.Comment,
					ContentHash: textutil.Hash(r.Value + "\x00" + r.Comment),
				})
			}
		}
	}
	return snap
}

// Store writes rows through a pgx pool.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
}

func New(pool *pgxpool.Pool, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{pool: pool, batchSize: batchSize}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create strings_entries: %w", err)
	}
	return nil
}

// PublishStats counts the rows touched by one publish.
type PublishStats struct {
	Changed int
	Removed int
}

// Publish upserts the snapshot rows and deletes rows of the snapshot files
// that are no longer present, all in one transaction. With pruneFiles set,
// rows of files missing from the snapshot are deleted too.
func (s *Store) Publish(ctx context.Context, snap Snapshot, pruneFiles bool) (PublishStats, error) {
	var stats PublishStats
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, chunk := range worker.Batch(snap.Rows, s.batchSize) {
		n, err := sendBatch(ctx, tx, upsertBatch(chunk))
		if err != nil {
			return stats, fmt.Errorf("upsert %s: %w", textutil.Truncate(chunk[0].Key, 40), err)
		}
		stats.Changed += n
	}

	n, err := sendBatch(ctx, tx, pruneBatch(snap, pruneFiles))
	if err != nil {
		return stats, fmt.Errorf("prune rows: %w", err)
	}
	stats.Removed = n

	if err := tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("commit publish: %w", err)
	}

	log.Info().
		Int("files", len(snap.Files)).
		Int("rows", len(snap.Rows)).
		Int("changed", stats.Changed).
		Int("removed", stats.Removed).
		Msg("Published strings to PostgreSQL")
	return stats, nil
}

// sendBatch runs every queued statement and sums the affected rows.
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	results := tx.SendBatch(ctx, batch)
	affected := 0
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		affected += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}
	return affected, nil
}

func upsertBatch(rows []Row) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertSQL, r.ID, r.File, r.Locale, r.Key, r.Value, r.Comment, r.ContentHash)
	}
	return batch
}

// pruneBatch deletes stale rows of every snapshot file. A file without rows
// gets an empty id list, never nil, so all of its rows go.
func pruneBatch(snap Snapshot, pruneFiles bool) *pgx.Batch {
	batch := &pgx.Batch{}
	ids := idsByFile(snap.Rows)
	for _, file := range snap.Files {
		fileIDs := ids[file]
		if fileIDs == nil {
			fileIDs = []string{}
		}
		batch.Queue(pruneSQL, file, fileIDs)
	}
	if pruneFiles {
		batch.Queue(pruneFilesSQL, append([]string{}, snap.Files...))
	}
	return batch
}

func idsByFile(rows []Row) map[string][]string {
	m := map[string][]string{}
	for _, r := range rows {
		m[r.File] = append(m[r.File], r.ID)
	}
	return m
}
