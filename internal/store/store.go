// Package store persists generated commentary in the Commentary table and
// decides whether an existing record is complete enough to keep.
//
// The table has no uniqueness constraint by default. Callers follow a
// two-step protocol: Exists, then Upsert with isUpdate set to the result.
// That is only safe for a single sequential writer.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"versegen/internal/logging"
	"versegen/internal/sqlite"
)

// ErrNotFound is returned when no row matches a verse key.
var ErrNotFound = errors.New("commentary not found")

const createTableSQL = `
CREATE TABLE IF NOT EXISTS Commentary (
	Book INTEGER,
	Chapter INTEGER,
	Verse INTEGER,
	Content TEXT
);`

const createUniqueIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_commentary_key ON Commentary(Book, Chapter, Verse);`

// Options configures a CommentaryStore.
type Options struct {
	Path      string
	Mode      Mode
	UniqueKey bool
}

// CommentaryStore owns one commentary database for the duration of a run.
type CommentaryStore struct {
	db        *sql.DB
	path      string
	mode      Mode
	uniqueKey bool
}

// Open opens (creating if needed) the database at opts.Path and initializes
// the schema. Any error here means the run must not proceed.
func Open(ctx context.Context, opts Options) (*CommentaryStore, error) {
	log := logging.Get(logging.CategoryStore)

	if opts.Path != ":memory:" {
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
		}
	}

	db, err := sqlite.Open(opts.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set busy_timeout", zap.Error(err))
	}

	s := newStore(db, opts)
	if err := s.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("commentary store ready",
		zap.String("path", opts.Path),
		zap.String("mode", string(s.mode)),
		zap.Bool("unique_key", s.uniqueKey))
	return s, nil
}

// OpenReadOnly opens an existing commentary database without touching its
// schema. Writes through the returned store fail.
func OpenReadOnly(ctx context.Context, path string) (*CommentaryStore, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return newStore(db, Options{Path: path}), nil
}

func newStore(db *sql.DB, opts Options) *CommentaryStore {
	mode := opts.Mode
	if mode == "" {
		mode = ModeStrict
	}
	return &CommentaryStore{
		db:        db,
		path:      opts.Path,
		mode:      mode,
		uniqueKey: opts.UniqueKey,
	}
}

// Initialize creates the Commentary table (and the unique index in
// unique-key mode). It is idempotent.
func (s *CommentaryStore) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create Commentary table: %w", err)
	}
	if s.uniqueKey {
		if _, err := s.db.ExecContext(ctx, createUniqueIndexSQL); err != nil {
			return fmt.Errorf("failed to create unique key index (does the store hold duplicate rows?): %w", err)
		}
	}
	return nil
}

// Initialized reports whether the Commentary table exists.
func (s *CommentaryStore) Initialized(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'Commentary'`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect store: %w", err)
	}
	return n > 0, nil
}

// Mode returns the acceptability mode used by IsAcceptable.
func (s *CommentaryStore) Mode() Mode {
	return s.mode
}

// Path returns the database location.
func (s *CommentaryStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *CommentaryStore) Close() error {
	return s.db.Close()
}
