package commentary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"versegen/internal/bible"
	"versegen/internal/logging"
	"versegen/internal/prompt"
	"versegen/internal/reference"
	"versegen/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type mapSource map[bible.Key]string

func (m mapSource) Verse(_ context.Context, key bible.Key) (string, error) {
	return m[key], nil
}

type errSource struct{ err error }

func (e errSource) Verse(context.Context, bible.Key) (string, error) { return "", e.err }

type fakeClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	prompts []string
}

func (f *fakeClient) CompleteWithSystem(ctx context.Context, _, userPrompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, userPrompt)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeClient) Model() string { return "fake" }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type memSink struct{ lines []string }

func (m *memSink) Record(line string) error {
	m.lines = append(m.lines, line)
	return nil
}

var (
	dan244 = bible.Key{Book: 27, Chapter: 2, Verse: 44}
	mrk943 = bible.Key{Book: 41, Chapter: 9, Verse: 43}
)

const goodReply = "The kingdom endures, as Revelation 11:15 also says.\n\n## Summary\nAn everlasting kingdom."

type harness struct {
	store  *store.CommentaryStore
	client *fakeClient
	errs   *memSink
	deps   Deps
	opts   Options
}

func newHarness(t *testing.T, mode store.Mode) *harness {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{Path: ":memory:", Mode: mode})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	profile, err := prompt.Lookup("en")
	require.NoError(t, err)

	h := &harness{
		store:  s,
		client: &fakeClient{reply: goodReply},
		errs:   &memSink{},
	}
	h.deps = Deps{
		Store:       s,
		Catalog:     mapSource{dan244: "In the days of those kings...", mrk943: "If your hand causes you to sin..."},
		Interlinear: mapSource{dan244: "מַלְכוּ kingdom", mrk943: "σκανδαλίζῃ causes to stumble"},
		Morphology:  mapSource{dan244: "Word: מַלְכוּ | Lexeme: מַלְכוּ | Morphology: noun | Interlinear: kingdom"},
		Client:      h.client,
		Errors:      h.errs,
	}
	h.opts = Options{Profile: profile, System: "sys", SkipAcceptable: true}
	return h
}

func (h *harness) run(t *testing.T, keys ...bible.Key) Stats {
	t.Helper()
	g, err := New(h.deps, h.opts)
	require.NoError(t, err)
	verses, err := g.Resolve(context.Background(), keys)
	require.NoError(t, err)
	stats, err := g.Run(context.Background(), verses)
	require.NoError(t, err)
	return stats
}

func TestRun_InsertsWithHeadingAndTags(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	stats := h.run(t, dan244)

	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, h.client.calls())
	assert.Contains(t, h.client.prompts[0], "## Daniel 2:44\nIn the days of those kings...")

	rec, err := h.store.Get(context.Background(), dan244)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.Content, "# Commentary - Daniel 2:44\n\n"))
	assert.Contains(t, rec.Content, `<ref onclick="bcv(66,11,15)">Revelation 11:15</ref>`)
	assert.Empty(t, h.errs.lines)
}

func TestRun_IdempotentSkip(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.run(t, dan244)
	first, err := h.store.Get(context.Background(), dan244)
	require.NoError(t, err)

	h.client.reply = "something else entirely"
	stats := h.run(t, dan244)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, h.client.calls())
	second, err := h.store.Get(context.Background(), dan244)
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)
}

func TestRun_UpdatesUnacceptableRecord(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	ctx := context.Background()
	require.NoError(t, h.store.Upsert(ctx, store.Record{Key: dan244, Content: "draft " + store.NoContentSentinel}, false))

	stats := h.run(t, dan244)
	assert.Equal(t, 1, stats.Updated)

	n, err := h.store.Count(ctx, dan244)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err := h.store.IsAcceptable(ctx, dan244)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_ExplicitRegenerationOverwrites(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.run(t, dan244)

	h.opts.SkipAcceptable = false
	h.client.reply = "Fresh text. Conclusion: fresh."
	stats := h.run(t, dan244)
	assert.Equal(t, 1, stats.Updated)

	rec, err := h.store.Get(context.Background(), dan244)
	require.NoError(t, err)
	assert.Contains(t, rec.Content, "Fresh text.")
}

func TestRun_MissingInterlinearSkipsGeneration(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	missing := bible.Key{Book: 1, Chapter: 1, Verse: 1}
	stats := h.run(t, missing)

	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, h.client.calls())
	assert.Equal(t, []string{"No interlinear verse for this verse: 1 1:1"}, h.errs.lines)

	total, err := h.store.Total(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRun_EmptyGenerationLogsAndContinues(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.client.reply = "   "
	stats := h.run(t, dan244, mrk943)

	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, []string{
		"No content for this verse: 27 2:44",
		"No content for this verse: 41 9:43",
	}, h.errs.lines)
}

func TestRun_TimeoutCountsAsNoContent(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.client.block = true
	h.opts.Timeout = 20 * time.Millisecond

	stats := h.run(t, dan244)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []string{"No content for this verse: 27 2:44"}, h.errs.lines)
}

func TestRun_LookupErrorsAreFailures(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.deps.Morphology = errSource{err: errors.New("disk I/O error")}
	stats := h.run(t, dan244)

	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, h.client.calls())
	assert.Equal(t, []string{"No morphology for this verse: 27 2:44"}, h.errs.lines)
}

type failingStore struct{ Store }

func (failingStore) Upsert(context.Context, store.Record, bool) error {
	return errors.New("database is locked")
}

func TestRun_WriteFailureContinues(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.deps.Store = failingStore{Store: h.store}
	stats := h.run(t, dan244, mrk943)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 2, h.client.calls())
	assert.Equal(t, "Failed to save commentary for this verse: 27 2:44", h.errs.lines[0])
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.opts.DryRun = true
	h.deps.Client = nil

	stats := h.run(t, dan244)
	assert.Equal(t, 1, stats.DryRun)

	total, err := h.store.Total(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRun_CancelledContextStops(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	g, err := New(h.deps, h.opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := g.Run(ctx, []reference.VerseText{{Key: dan244}, {Key: mrk943}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Total)
	assert.Zero(t, h.client.calls())
}

type cancellingClient struct {
	cancel context.CancelFunc
}

func (c cancellingClient) CompleteWithSystem(ctx context.Context, _, _ string) (string, error) {
	c.cancel()
	<-ctx.Done()
	return "", ctx.Err()
}

func (cancellingClient) Model() string { return "fake" }

func TestRun_CancelDuringGenerationIsNotAFailure(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.deps.Client = cancellingClient{cancel: cancel}
	h.opts.Timeout = time.Minute

	g, err := New(h.deps, h.opts)
	require.NoError(t, err)
	stats, err := g.Run(ctx, []reference.VerseText{{Key: dan244}, {Key: mrk943}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Failed)
	assert.Empty(t, h.errs.lines)

	total, err := h.store.Total(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRun_ChineseProfileLenient(t *testing.T) {
	h := newHarness(t, store.ModeLenient)
	zh, err := prompt.Lookup("zh")
	require.NoError(t, err)
	h.opts.Profile = zh
	h.client.reply = "這是註釋，參看啟示錄11:15。"

	h.run(t, mrk943)
	assert.Contains(t, h.client.prompts[0], "# Response Language")

	rec, err := h.store.Get(context.Background(), mrk943)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.Content, "# 聖經註釋 - 馬可福音 9:43\n\n"))
	assert.Contains(t, rec.Content, `<ref onclick="bcv(66,11,15)">啟示錄11:15</ref>`)

	// No completion marker, but lenient mode accepts it: second pass skips.
	stats := h.run(t, mrk943)
	assert.Equal(t, 1, stats.Skipped)
}

func TestRun_WritesAudit(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	audit, err := logging.OpenAudit(path, "test-run")
	require.NoError(t, err)
	h.deps.Audit = audit

	h.run(t, dan244, bible.Key{Book: 1, Chapter: 1, Verse: 1})
	require.NoError(t, audit.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"event":"run_start"`)
	assert.Contains(t, lines[1], `"event":"verse_generated"`)
	assert.Contains(t, lines[2], `"event":"verse_failed"`)
	assert.Contains(t, lines[3], `"event":"run_end"`)
}

func TestNew_Validation(t *testing.T) {
	h := newHarness(t, store.ModeStrict)

	deps := h.deps
	deps.Client = nil
	_, err := New(deps, h.opts)
	assert.Error(t, err)

	opts := h.opts
	opts.Profile = nil
	_, err = New(h.deps, opts)
	assert.Error(t, err)

	g, err := New(h.deps, h.opts)
	require.NoError(t, err)
	assert.NotEmpty(t, g.RunID())
}

func TestNew_KeepsRunID(t *testing.T) {
	h := newHarness(t, store.ModeStrict)
	h.opts.RunID = "fixed"
	g, err := New(h.deps, h.opts)
	require.NoError(t, err)
	assert.Equal(t, "fixed", g.RunID())

	stats, err := g.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", stats.RunID)
}
