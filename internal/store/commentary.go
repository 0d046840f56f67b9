package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"versegen/internal/bible"
	"versegen/internal/logging"
)

// PreviewRunes is how much content FetchAll keeps per row.
const PreviewRunes = 50

// Record is one stored commentary.
type Record struct {
	Key     bible.Key
	Content string
}

// Preview is a FetchAll row with truncated content.
type Preview struct {
	Key     bible.Key
	Content string
}

// Exists reports whether any row matches key, regardless of content.
func (s *CommentaryStore) Exists(ctx context.Context, key bible.Key) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM Commentary WHERE Book = ? AND Chapter = ? AND Verse = ? LIMIT 1`,
		key.Book, key.Chapter, key.Verse).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return true, nil
}

// Get returns the first stored record for key, or ErrNotFound.
func (s *CommentaryStore) Get(ctx context.Context, key bible.Key) (Record, error) {
	var content sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT Content FROM Commentary WHERE Book = ? AND Chapter = ? AND Verse = ? ORDER BY rowid LIMIT 1`,
		key.Book, key.Chapter, key.Verse).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return Record{Key: key, Content: content.String}, nil
}

// IsAcceptable classifies the stored record for key under the store's mode.
// A missing record is not acceptable.
func (s *CommentaryStore) IsAcceptable(ctx context.Context, key bible.Key) (bool, error) {
	rec, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return Acceptable(s.mode, rec.Content), nil
}

// Upsert writes rec. With isUpdate the Content of every row matching the
// key is replaced; otherwise a new row is appended. In unique-key mode a
// single INSERT ... ON CONFLICT statement is used and isUpdate is ignored.
// Each call commits on its own.
func (s *CommentaryStore) Upsert(ctx context.Context, rec Record, isUpdate bool) error {
	log := logging.Get(logging.CategoryStore)
	k := rec.Key

	if s.uniqueKey {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO Commentary (Book, Chapter, Verse, Content) VALUES (?, ?, ?, ?)
			ON CONFLICT(Book, Chapter, Verse) DO UPDATE SET Content = excluded.Content`,
			k.Book, k.Chapter, k.Verse, rec.Content)
		if err != nil {
			return fmt.Errorf("failed to upsert %s: %w", k, err)
		}
		log.Info("Upserted", keyFields(k)...)
		return nil
	}

	if isUpdate {
		res, err := s.db.ExecContext(ctx,
			`UPDATE Commentary SET Content = ? WHERE Book = ? AND Chapter = ? AND Verse = ?`,
			rec.Content, k.Book, k.Chapter, k.Verse)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", k, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("failed to update %s: %w", k, ErrNotFound)
		}
		log.Info("Updated", keyFields(k)...)
		return nil
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO Commentary (Book, Chapter, Verse, Content) VALUES (?, ?, ?, ?)`,
		k.Book, k.Chapter, k.Verse, rec.Content); err != nil {
		return fmt.Errorf("failed to insert %s: %w", k, err)
	}
	log.Info("Inserted", keyFields(k)...)
	return nil
}

// FetchAll lists every row with content cut to PreviewRunes runes. An empty
// table returns an empty slice. Read-only.
func (s *CommentaryStore) FetchAll(ctx context.Context) ([]Preview, error) {
	recs, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Preview, 0, len(recs))
	for _, r := range recs {
		out = append(out, Preview{Key: r.Key, Content: Truncate(r.Content, PreviewRunes)})
	}
	return out, nil
}

// All returns every row in insertion order.
func (s *CommentaryStore) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT Book, Chapter, Verse, Content FROM Commentary ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list commentary: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var content sql.NullString
		if err := rows.Scan(&r.Key.Book, &r.Key.Chapter, &r.Key.Verse, &content); err != nil {
			return nil, fmt.Errorf("failed to scan commentary row: %w", err)
		}
		r.Content = content.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list commentary: %w", err)
	}
	return out, nil
}

// Count returns the number of rows stored for key.
func (s *CommentaryStore) Count(ctx context.Context, key bible.Key) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Commentary WHERE Book = ? AND Chapter = ? AND Verse = ?`,
		key.Book, key.Chapter, key.Verse).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", key, err)
	}
	return n, nil
}

// Total returns the number of rows in the table.
func (s *CommentaryStore) Total(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Commentary`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count commentary: %w", err)
	}
	return n, nil
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func keyFields(k bible.Key) []zap.Field {
	return []zap.Field{zap.Int("book", k.Book), zap.Int("chapter", k.Chapter), zap.Int("verse", k.Verse)}
}
