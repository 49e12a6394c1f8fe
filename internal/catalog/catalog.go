package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"strings-toolkit/internal/document"
	"strings-toolkit/internal/filewalker"
	"strings-toolkit/internal/worker"
)

var (
	ErrDuplicateName = errors.New("duplicate file name")
	ErrTableNotFound = errors.New("file not found")
)

// Catalog is every table found under a set of roots.
type Catalog struct {
	opts   document.Options
	tables []*Table
	hook   WriteHook
}

// Open discovers and parses all files found by w under roots, using up to
// workers goroutines.
func Open(ctx context.Context, w *filewalker.Walker, roots []string, opts document.Options, workers int) (*Catalog, error) {
	entries, err := w.Walk(roots...)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(workers, func(_ context.Context, e filewalker.FileEntry) (*File, error) {
		return Load(e, opts)
	})
	var errs []error
	var files []*File
	for _, task := range pool.Execute(ctx, entries) {
		if task.Err != nil {
			errs = append(errs, task.Err)
			continue
		}
		files = append(files, task.Result)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c := &Catalog{opts: opts}
	if err := c.add(files...); err != nil {
		return nil, err
	}
	log.Debug().Int("files", len(files)).Int("tables", len(c.tables)).Msg("Loaded catalog")
	return c, nil
}

func (c *Catalog) add(files ...*File) error {
	for _, f := range files {
		f.beforeWrite = c.hook
		t, ok := c.Table(f.Name)
		if !ok {
			t = newTable(f.Name, f.Dir)
			c.tables = append(c.tables, t)
		} else if !strings.EqualFold(t.Dir, f.Dir) {
			return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateName, f.Name, t.Dir, f.Dir)
		}
		t.files[f.Locale] = f
	}
	slices.SortFunc(c.tables, func(a, b *Table) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return nil
}

// OnWrite installs a hook run before any file of the catalog is written.
func (c *Catalog) OnWrite(hook WriteHook) {
	c.hook = hook
	for _, t := range c.tables {
		for _, f := range t.files {
			f.beforeWrite = hook
		}
	}
}

func (c *Catalog) Options() document.Options {
	return c.opts
}

// Tables returns the tables sorted by name.
func (c *Catalog) Tables() []*Table {
	return slices.Clone(c.tables)
}

func (c *Catalog) Table(name string) (*Table, bool) {
	for _, t := range c.tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Find is Table returning ErrTableNotFound for unknown names.
func (c *Catalog) Find(name string) (*Table, error) {
	t, ok := c.Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// Save writes all changed files.
func (c *Catalog) Save(force bool) error {
	for _, t := range c.tables {
		if err := t.Save(force); err != nil {
			return err
		}
	}
	return nil
}
