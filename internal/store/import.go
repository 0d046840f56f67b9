package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"versegen/internal/bible"
	"versegen/internal/logging"
)

// ImportStats summarizes an Import.
type ImportStats struct {
	Copied  int
	Skipped int // already present in the destination
	Missing int // requested keys absent from the source
}

// Import copies commentary from src into s. With no keys every source row
// is considered. Keys that already exist in s are left untouched, so
// Import can be rerun safely.
func (s *CommentaryStore) Import(ctx context.Context, src *CommentaryStore, keys []bible.Key) (ImportStats, error) {
	log := logging.Get(logging.CategoryStore)
	var stats ImportStats

	var recs []Record
	if len(keys) == 0 {
		all, err := src.All(ctx)
		if err != nil {
			return stats, err
		}
		recs = all
	} else {
		for _, k := range keys {
			rec, err := src.Get(ctx, k)
			if errors.Is(err, ErrNotFound) {
				log.Debug("not in source", keyFields(k)...)
				stats.Missing++
				continue
			}
			if err != nil {
				return stats, err
			}
			recs = append(recs, rec)
		}
	}

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		exists, err := s.Exists(ctx, rec.Key)
		if err != nil {
			return stats, err
		}
		if exists {
			stats.Skipped++
			continue
		}
		if err := s.Upsert(ctx, rec, false); err != nil {
			return stats, fmt.Errorf("import stopped: %w", err)
		}
		stats.Copied++
	}

	log.Info("import finished",
		zap.String("source", src.Path()),
		zap.Int("copied", stats.Copied),
		zap.Int("skipped", stats.Skipped),
		zap.Int("missing", stats.Missing))
	return stats, nil
}
