package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"versegen/internal/bible"
)

// VerseText is one catalog row with markup removed.
type VerseText struct {
	Key  bible.Key
	Text string
}

// Catalog reads a translation's Verses(Book, Chapter, Verse, Scripture) table.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens a verse catalog bible read-only.
func OpenCatalog(ctx context.Context, path string) (*Catalog, error) {
	db, err := openDB(ctx, "catalog", path)
	if err != nil {
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// Verse returns the verse text, or "" when the catalog lacks it.
func (c *Catalog) Verse(ctx context.Context, key bible.Key) (string, error) {
	return scriptureAt(ctx, c.db, key, StripMarkup)
}

// All returns every verse in canonical order.
func (c *Catalog) All(ctx context.Context) ([]VerseText, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT Book, Chapter, Verse, Scripture FROM Verses ORDER BY Book, Chapter, Verse`)
	if err != nil {
		return nil, fmt.Errorf("failed to list verses: %w", err)
	}
	defer rows.Close()

	var out []VerseText
	for rows.Next() {
		var v VerseText
		var text sql.NullString
		if err := rows.Scan(&v.Key.Book, &v.Key.Chapter, &v.Key.Verse, &text); err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		v.Text = StripMarkup(text.String)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list verses: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Interlinear reads the word-for-word interlinear bible, which shares the
// Verses table layout with catalogs.
type Interlinear struct {
	db *sql.DB
}

// OpenInterlinear opens the interlinear bible read-only.
func OpenInterlinear(ctx context.Context, path string) (*Interlinear, error) {
	db, err := openDB(ctx, "interlinear", path)
	if err != nil {
		return nil, err
	}
	return &Interlinear{db: db}, nil
}

// Verse returns the cleaned interlinear text, or "" when absent.
func (i *Interlinear) Verse(ctx context.Context, key bible.Key) (string, error) {
	return scriptureAt(ctx, i.db, key, CleanInterlinear)
}

// Close closes the database.
func (i *Interlinear) Close() error {
	return i.db.Close()
}

func scriptureAt(ctx context.Context, db *sql.DB, key bible.Key, clean func(string) string) (string, error) {
	var text sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT Scripture FROM Verses WHERE Book = ? AND Chapter = ? AND Verse = ?`,
		key.Book, key.Chapter, key.Verse).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read verse %s: %w", key, err)
	}
	return clean(text.String), nil
}
