// Package filestore keeps small tables as JSON arrays on disk.
//
// Each table is a single file rewritten on every change. Writers inside one
// process are serialised per table; separate processes sharing a data
// directory are not coordinated.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

// Table is a JSON array of T stored at a fixed path.
type Table[T any] struct {
	path string
	mu   sync.Mutex
}

func NewTable[T any](dir, name string) *Table[T] {
	return &Table[T]{
		path: filepath.Join(dir, name+".json"),
	}
}

func (t *Table[T]) Path() string {
	return t.path
}

// Load returns every row of the table, creating an empty table first if needed.
func (t *Table[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.read()
}

// Update reads the table, hands the rows to fn and writes back what fn returns.
// When fn returns an error nothing is written and the error is passed through.
func (t *Table[T]) Update(ctx context.Context, fn func(rows []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.read()
	if err != nil {
		return err
	}

	rows, err = fn(rows)
	if err != nil {
		return err
	}

	return t.write(rows)
}

func (t *Table[T]) read() ([]T, error) {
	if err := t.ensure(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}

	rows := []T{}
	if len(data) == 0 {
		return rows, nil
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", t.path, err)
	}

	return rows, nil
}

func (t *Table[T]) ensure() error {
	_, err := os.Stat(t.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", t.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	return t.write([]T{})
}

// write replaces the file through a rename so readers never see a partial table.
func (t *Table[T]) write(rows []T) error {
	if rows == nil {
		rows = []T{}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.path, err)
	}

	if err := renameio.WriteFile(t.path, data, 0o644, renameio.WithTempDir(filepath.Dir(t.path))); err != nil {
		return fmt.Errorf("replace %s: %w", t.path, err)
	}

	return nil
}
