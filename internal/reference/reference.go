// Package reference reads the pre-existing, read-only bible databases:
// a verse catalog (NET, CUV, ...), the OHGBi interlinear bible and the
// morphology database. Schemas are fixed by the databases' publisher.
package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"versegen/internal/logging"
	"versegen/internal/sqlite"
)

var (
	markupTag = regexp.MustCompile(`<[^<>]*>`)
	// interlinearTag is lazier: a stray '<' swallows text up to the next '>'.
	interlinearTag = regexp.MustCompile(`<.*?>`)
)

// StripMarkup removes every <...> tag. A lone '<' with no closing '>'
// before the next '<' is kept as text.
func StripMarkup(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

// CleanInterlinear puts a space in front of each <gloss> tag before
// stripping markup, so a word and its gloss do not run together.
func CleanInterlinear(s string) string {
	return interlinearTag.ReplaceAllString(strings.ReplaceAll(s, "<gloss>", " <gloss>"), "")
}

func openDB(ctx context.Context, kind, path string) (*sql.DB, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s database %s: %w", kind, path, err)
	}
	logging.Get(logging.CategoryReference).Debug("opened reference database",
		zap.String("kind", kind), zap.String("path", path))
	return db, nil
}

// Paths locates the three reference databases.
type Paths struct {
	Catalog     string
	Interlinear string
	Morphology  string
}

// Sources bundles the readers a generation pass needs.
type Sources struct {
	Catalog     *Catalog
	Interlinear *Interlinear
	Morphology  *Morphology
}

// Open opens all three databases read-only. Nothing is left open on error.
func Open(ctx context.Context, p Paths) (*Sources, error) {
	cat, err := OpenCatalog(ctx, p.Catalog)
	if err != nil {
		return nil, err
	}
	il, err := OpenInterlinear(ctx, p.Interlinear)
	if err != nil {
		cat.Close()
		return nil, err
	}
	morph, err := OpenMorphology(ctx, p.Morphology)
	if err != nil {
		cat.Close()
		il.Close()
		return nil, err
	}
	return &Sources{Catalog: cat, Interlinear: il, Morphology: morph}, nil
}

// Close closes every reader.
func (s *Sources) Close() error {
	return errors.Join(s.Catalog.Close(), s.Interlinear.Close(), s.Morphology.Close())
}
