package reference

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"versegen/internal/bible"
)

// Word is one row of the morphology table.
type Word struct {
	WordID          int
	ClauseID        int
	Key             bible.Key
	Word            string
	LexicalEntry    string
	MorphologyCode  string
	Morphology      string
	Lexeme          string
	Transliteration string
	Pronunciation   string
	Interlinear     string
	Translation     string
	Gloss           string
}

// Line renders the word the way prompts list it.
func (w Word) Line() string {
	return fmt.Sprintf("Word: %s | Lexeme: %s | Morphology: %s | Interlinear: %s",
		w.Word, w.Lexeme, w.Morphology, w.Interlinear)
}

// FormatWords joins Line() of every word with newlines.
func FormatWords(words []Word) string {
	lines := make([]string, len(words))
	for i, w := range words {
		lines[i] = w.Line()
	}
	return strings.Join(lines, "\n")
}

// Morphology reads the per-word morphology database.
type Morphology struct {
	db *sql.DB
}

// OpenMorphology opens the morphology database read-only.
func OpenMorphology(ctx context.Context, path string) (*Morphology, error) {
	db, err := openDB(ctx, "morphology", path)
	if err != nil {
		return nil, err
	}
	return &Morphology{db: db}, nil
}

// Words returns the verse's words ordered by WordID.
func (m *Morphology) Words(ctx context.Context, key bible.Key) ([]Word, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT WordID, ClauseID, Book, Chapter, Verse, Word, LexicalEntry,
		       MorphologyCode, Morphology, Lexeme, Transliteration,
		       Pronunciation, Interlinear, Translation, Gloss
		FROM morphology
		WHERE Book = ? AND Chapter = ? AND Verse = ?
		ORDER BY WordID`,
		key.Book, key.Chapter, key.Verse)
	if err != nil {
		return nil, fmt.Errorf("failed to read morphology for %s: %w", key, err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var w Word
		var clause sql.NullInt64
		var text [10]sql.NullString
		if err := rows.Scan(&w.WordID, &clause, &w.Key.Book, &w.Key.Chapter, &w.Key.Verse,
			&text[0], &text[1], &text[2], &text[3], &text[4],
			&text[5], &text[6], &text[7], &text[8], &text[9]); err != nil {
			return nil, fmt.Errorf("failed to scan morphology row: %w", err)
		}
		w.ClauseID = int(clause.Int64)
		w.Word = text[0].String
		w.LexicalEntry = text[1].String
		w.MorphologyCode = text[2].String
		w.Morphology = text[3].String
		w.Lexeme = text[4].String
		w.Transliteration = text[5].String
		w.Pronunciation = text[6].String
		w.Interlinear = text[7].String
		w.Translation = text[8].String
		w.Gloss = text[9].String
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read morphology for %s: %w", key, err)
	}
	return out, nil
}

// Verse returns the formatted word list, or "" when there are no rows.
func (m *Morphology) Verse(ctx context.Context, key bible.Key) (string, error) {
	words, err := m.Words(ctx, key)
	if err != nil {
		return "", err
	}
	return FormatWords(words), nil
}

// Close closes the database.
func (m *Morphology) Close() error {
	return m.db.Close()
}
