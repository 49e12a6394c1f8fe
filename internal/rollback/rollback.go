// Package rollback snapshots files before they are modified so a failed
// command can put the tree back the way it found it.
package rollback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

type operation struct {
	path     string
	snapshot string // empty for files created during the run
}

// Rollback records protected and created files in order. It is not safe for
// concurrent use.
type Rollback struct {
	dir       string
	protected map[string]bool
	created   map[string]bool
	ops       []operation
}

func New() *Rollback {
	return &Rollback{protected: map[string]bool{}, created: map[string]bool{}}
}

// Protect copies the current content of path aside. Later calls for the same
// path are no-ops. A path that does not exist yet is recorded as created.
func (r *Rollback) Protect(path string) error {
	if r.protected[path] || r.created[path] {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		r.Created(path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("protect %s: %w", path, err)
	}
	if r.dir == "" {
		if r.dir, err = os.MkdirTemp("", "stringsctl-rollback-"); err != nil {
			return fmt.Errorf("create rollback dir: %w", err)
		}
	}
	snapshot := filepath.Join(r.dir, strconv.Itoa(len(r.ops)))
	if err := os.WriteFile(snapshot, data, 0600); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	r.protected[path] = true
	r.ops = append(r.ops, operation{path: path, snapshot: snapshot})
	log.Debug().Str("file", path).Msg("Protected file")
	return nil
}

// Created records a file that restore must remove.
func (r *Rollback) Created(path string) {
	if r.created[path] {
		return
	}
	r.created[path] = true
	r.ops = append(r.ops, operation{path: path})
}

// Restore puts every protected file back and removes every created one,
// in reverse order. It keeps going after a failure and returns all errors.
func (r *Rollback) Restore() error {
	var errs []error
	for i := len(r.ops) - 1; i >= 0; i-- {
		op := r.ops[i]
		if op.snapshot == "" {
			if err := os.Remove(op.path); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("remove %s: %w", op.path, err))
			}
			continue
		}
		data, err := os.ReadFile(op.snapshot)
		if err == nil {
			err = os.WriteFile(op.path, data, 0644)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", op.path, err))
		}
	}
	if len(errs) == 0 && len(r.ops) > 0 {
		log.Warn().Int("files", len(r.ops)).Msg("Rolled back changes")
	}
	return errors.Join(errs...)
}

// Close removes the snapshots.
func (r *Rollback) Close() error {
	if r.dir == "" {
		return nil
	}
	err := os.RemoveAll(r.dir)
	r.dir = ""
	return err
}
