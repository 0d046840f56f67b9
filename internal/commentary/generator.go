// Package commentary runs the generation pass: for each verse it gathers
// the reference data, asks the model for a commentary and stores the result.
// Verses are processed one at a time; a failing verse is logged and skipped.
package commentary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"versegen/internal/bible"
	"versegen/internal/llm"
	"versegen/internal/logging"
	"versegen/internal/prompt"
	"versegen/internal/reference"
	"versegen/internal/store"
)

// Store is the part of *store.CommentaryStore the pass needs.
type Store interface {
	Exists(ctx context.Context, key bible.Key) (bool, error)
	IsAcceptable(ctx context.Context, key bible.Key) (bool, error)
	Upsert(ctx context.Context, rec store.Record, isUpdate bool) error
}

// VerseSource returns per-verse text; "" means no data.
type VerseSource interface {
	Verse(ctx context.Context, key bible.Key) (string, error)
}

// ErrorSink receives one line per failed verse.
type ErrorSink interface {
	Record(line string) error
}

// Deps are the collaborators of a Generator. Audit may be nil.
type Deps struct {
	Store       Store
	Catalog     VerseSource
	Interlinear VerseSource
	Morphology  VerseSource
	Client      llm.Client
	Errors      ErrorSink
	Audit       *logging.AuditLogger
}

// Options tune a pass.
type Options struct {
	Profile        *prompt.Profile
	System         string        // system prompt text
	Timeout        time.Duration // per generation call; 0 means none
	SkipAcceptable bool          // leave acceptable records untouched
	DryRun         bool          // build prompts only
	RunID          string        // generated when empty
}

// Outcome of processing one verse.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
	OutcomeDryRun   Outcome = "dry_run"

	// OutcomeInterrupted means the pass was cancelled mid-verse; nothing
	// is recorded for the verse and it is not counted.
	OutcomeInterrupted Outcome = "interrupted"
)

// Stats counts outcomes over a pass.
type Stats struct {
	RunID    string
	Total    int
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
	DryRun   int
	Elapsed  time.Duration
}

func (s *Stats) add(o Outcome) {
	s.Total++
	switch o {
	case OutcomeInserted:
		s.Inserted++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	case OutcomeDryRun:
		s.DryRun++
	}
}

// Generator runs generation passes.
type Generator struct {
	deps  Deps
	opts  Options
	runID string
	log   *zap.Logger
}

// New creates a Generator.
func New(deps Deps, opts Options) (*Generator, error) {
	if deps.Store == nil || deps.Interlinear == nil || deps.Morphology == nil || deps.Errors == nil {
		return nil, fmt.Errorf("generator: store, interlinear, morphology and error log are required")
	}
	if deps.Client == nil && !opts.DryRun {
		return nil, fmt.Errorf("generator: a generation client is required unless dry-run")
	}
	if opts.Profile == nil {
		return nil, fmt.Errorf("generator: profile is required")
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Generator{
		deps:  deps,
		opts:  opts,
		runID: runID,
		log:   logging.Get(logging.CategoryBatch).With(zap.String("run_id", runID)),
	}, nil
}

// RunID identifies this generator's passes in logs and the audit file.
func (g *Generator) RunID() string {
	return g.runID
}

// Resolve fetches verse text for explicit keys from the catalog. Keys the
// catalog lacks keep an empty Text.
func (g *Generator) Resolve(ctx context.Context, keys []bible.Key) ([]reference.VerseText, error) {
	if g.deps.Catalog == nil {
		return nil, fmt.Errorf("generator: no verse catalog configured")
	}
	out := make([]reference.VerseText, 0, len(keys))
	for _, k := range keys {
		text, err := g.deps.Catalog.Verse(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, reference.VerseText{Key: k, Text: text})
	}
	return out, nil
}

// Run processes verses in order. Per-verse failures are counted and logged;
// only context cancellation stops the pass early, and its error is returned.
func (g *Generator) Run(ctx context.Context, verses []reference.VerseText) (Stats, error) {
	start := time.Now()
	stats := Stats{RunID: g.runID}
	g.log.Info("generation pass starting",
		zap.Int("verses", len(verses)),
		zap.String("profile", g.opts.Profile.Name),
		zap.Bool("skip_acceptable", g.opts.SkipAcceptable),
		zap.Bool("dry_run", g.opts.DryRun))
	g.deps.Audit.Run(logging.AuditRunStart, map[string]any{
		"verses":  len(verses),
		"profile": g.opts.Profile.Name,
		"dry_run": g.opts.DryRun,
	})

	var runErr error
	for _, v := range verses {
		if err := ctx.Err(); err != nil {
			g.log.Warn("generation pass interrupted", zap.Error(err))
			runErr = err
			break
		}
		outcome := g.Process(ctx, v)
		if outcome == OutcomeInterrupted {
			g.log.Warn("generation pass interrupted", zap.Error(ctx.Err()))
			runErr = ctx.Err()
			break
		}
		stats.add(outcome)
	}

	stats.Elapsed = time.Since(start)
	g.log.Info("generation pass finished",
		zap.Int("total", stats.Total),
		zap.Int("inserted", stats.Inserted),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", stats.Elapsed))
	g.deps.Audit.Run(logging.AuditRunEnd, map[string]any{
		"total":    stats.Total,
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
		"failed":   stats.Failed,
	})
	return stats, runErr
}

// Process handles a single verse and reports what happened to it.
func (g *Generator) Process(ctx context.Context, v reference.VerseText) Outcome {
	start := time.Now()
	key := v.Key
	log := g.log.With(zap.String("verse", key.String()))

	if g.opts.SkipAcceptable {
		ok, err := g.deps.Store.IsAcceptable(ctx, key)
		if err != nil {
			log.Error("acceptability check failed", zap.Error(err))
			return g.fail(key, start, fmt.Sprintf("Failed to check commentary for this verse: %s", key), err)
		}
		if ok {
			log.Debug("acceptable commentary exists, skipping")
			g.deps.Audit.Verse(logging.AuditSkipped, key.String(), time.Since(start), nil)
			return OutcomeSkipped
		}
	}

	log.Info("Working on verse", zap.String("text", v.Text))

	interlinear, err := g.deps.Interlinear.Verse(ctx, key)
	if err != nil {
		log.Error("interlinear lookup failed", zap.Error(err))
		return g.fail(key, start, fmt.Sprintf("No interlinear verse for this verse: %s", key), err)
	}
	if interlinear == "" {
		return g.fail(key, start, fmt.Sprintf("No interlinear verse for this verse: %s", key), nil)
	}

	morphology, err := g.deps.Morphology.Verse(ctx, key)
	if err != nil {
		log.Error("morphology lookup failed", zap.Error(err))
		return g.fail(key, start, fmt.Sprintf("No morphology for this verse: %s", key), err)
	}

	userPrompt, err := g.opts.Profile.Build(prompt.Input{
		Key:         key,
		Verse:       v.Text,
		Interlinear: interlinear,
		Morphology:  morphology,
	})
	if err != nil {
		log.Error("prompt build failed", zap.Error(err))
		return g.fail(key, start, fmt.Sprintf("No content for this verse: %s", key), err)
	}

	if g.opts.DryRun {
		log.Info("dry run prompt", zap.String("prompt", userPrompt))
		g.deps.Audit.Verse(logging.AuditDryRun, key.String(), time.Since(start), nil)
		return OutcomeDryRun
	}

	content, err := g.generate(ctx, userPrompt)
	if ctx.Err() != nil {
		log.Warn("generation cancelled", zap.Error(ctx.Err()))
		return OutcomeInterrupted
	}
	if err != nil || content == "" {
		log.Warn("generation failed", zap.Error(err))
		return g.fail(key, start, fmt.Sprintf("No content for this verse: %s", key), err)
	}
	content = g.opts.Profile.Finish(key, content)

	exists, err := g.deps.Store.Exists(ctx, key)
	if err != nil {
		log.Error("existence check failed", zap.Error(err))
		return g.fail(key, start, fmt.Sprintf("Failed to save commentary for this verse: %s", key), err)
	}
	if err := g.deps.Store.Upsert(ctx, store.Record{Key: key, Content: content}, exists); err != nil {
		log.Error("failed to save commentary", zap.Error(err))
		return g.fail(key, start, fmt.Sprintf("Failed to save commentary for this verse: %s", key), err)
	}

	g.deps.Audit.Verse(logging.AuditGenerated, key.String(), time.Since(start), nil)
	if exists {
		return OutcomeUpdated
	}
	return OutcomeInserted
}

func (g *Generator) generate(ctx context.Context, userPrompt string) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	msgs, err := llm.Generate(ctx, g.deps.Client, g.opts.System, userPrompt)
	g.log.Debug("generation call returned",
		zap.String("model", g.deps.Client.Model()),
		zap.Duration("latency", time.Since(start)),
		zap.Int("messages", len(msgs)))
	return llm.LastContent(msgs), err
}

// fail records line in the error log and the audit, then reports failure.
func (g *Generator) fail(key bible.Key, start time.Time, line string, cause error) Outcome {
	g.log.Warn(line)
	if err := g.deps.Errors.Record(line); err != nil {
		g.log.Error("failed to write error log", zap.Error(err))
	}
	if cause == nil {
		cause = errors.New(line)
	}
	g.deps.Audit.Verse(logging.AuditFailed, key.String(), time.Since(start), cause)
	return OutcomeFailed
}
