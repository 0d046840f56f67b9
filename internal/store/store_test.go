package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versegen/internal/bible"
	"versegen/internal/sqlite"
)

var daniel244 = bible.Key{Book: 27, Chapter: 2, Verse: 44}

func newTestStore(t *testing.T, opts Options) *CommentaryStore {
	t.Helper()
	if opts.Path == "" {
		opts.Path = ":memory:"
	}
	s, err := Open(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ai_commentary.db")
	s := newTestStore(t, Options{Path: path})

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, ModeStrict, s.Mode())
}

func TestOpenFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := Open(context.Background(), Options{Path: filepath.Join(blocker, "x.db")})
	assert.Error(t, err)
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "c.db")

	s := newTestStore(t, Options{Path: path})
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "kept"}, false))
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Close())

	s2 := newTestStore(t, Options{Path: path})
	rec, err := s2.Get(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, "kept", rec.Content)
}

func TestInitializedReportsTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bare.db")

	raw, err := sqlite.Open(path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE Other (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	ro, err := OpenReadOnly(ctx, path)
	require.NoError(t, err)
	defer ro.Close()
	ok, err := ro.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = newTestStore(t, Options{}).Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	exists, err := s.Exists(ctx, daniel244)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "first"}, exists))
	n, err := s.Count(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	exists, err = s.Exists(ctx, daniel244)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "second"}, exists))
	n, err = s.Count(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec, err := s.Get(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, "second", rec.Content)
}

func TestUpdateWithoutRowReportsNotFound(t *testing.T) {
	s := newTestStore(t, Options{})
	err := s.Upsert(context.Background(), Record{Key: daniel244, Content: "x"}, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertTwiceDuplicatesWithoutUniqueKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "a"}, false))
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "b"}, false))

	n, err := s.Count(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Get and IsAcceptable look at the first row.
	rec, err := s.Get(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Content)

	// Update rewrites every duplicate.
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "c"}, true))
	all, err := s.All(ctx)
	require.NoError(t, err)
	want := []Record{{Key: daniel244, Content: "c"}, {Key: daniel244, Content: "c"}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestUniqueKeyModeUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{UniqueKey: true})

	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "a"}, false))
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "b"}, false))

	n, err := s.Count(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	rec, err := s.Get(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Content)
}

func TestUniqueKeyModeRejectsDuplicateStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dups.db")

	s := newTestStore(t, Options{Path: path})
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "a"}, false))
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "b"}, false))
	require.NoError(t, s.Close())

	_, err := Open(ctx, Options{Path: path, UniqueKey: true})
	assert.Error(t, err)
}

func TestIsAcceptable(t *testing.T) {
	ctx := context.Background()
	strict := newTestStore(t, Options{Mode: ModeStrict})
	lenient := newTestStore(t, Options{Mode: ModeLenient})

	for _, s := range []*CommentaryStore{strict, lenient} {
		ok, err := s.IsAcceptable(ctx, daniel244)
		require.NoError(t, err)
		assert.False(t, ok, "absent record is never acceptable")
		require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: "Cut off mid"}, false))
	}

	ok, err := strict.IsAcceptable(ctx, daniel244)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lenient.IsAcceptable(ctx, daniel244)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, strict.Upsert(ctx, Record{Key: daniel244, Content: "## Summary\nAll good."}, true))
	ok, err = strict.IsAcceptable(ctx, daniel244)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFetchAllDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	empty, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	long := "這節經文描述神的國永不敗壞，並且要打碎滅絕這一切國，" +
		"這國必存到永遠。這是但以理對尼布甲尼撒之夢的解釋，也是全本聖經國度主題的高峰之一。"
	require.NoError(t, s.Upsert(ctx, Record{Key: daniel244, Content: long}, false))
	require.NoError(t, s.Upsert(ctx, Record{Key: bible.Key{Book: 41, Chapter: 9, Verse: 43}, Content: "short"}, false))

	before, err := s.All(ctx)
	require.NoError(t, err)

	first, err := s.FetchAll(ctx)
	require.NoError(t, err)
	second, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	after, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.Len(t, first, 2)
	assert.Equal(t, daniel244, first[0].Key)
	assert.Equal(t, []rune(long)[:PreviewRunes], []rune(first[0].Content)[:PreviewRunes])
	assert.Equal(t, "...", string([]rune(first[0].Content)[PreviewRunes:]))
	assert.Equal(t, "short", first[1].Content)

	total, err := s.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t, Options{})
	_, err := s.Get(context.Background(), daniel244)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNullContentReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{Mode: ModeLenient})
	_, err := s.db.ExecContext(ctx, `INSERT INTO Commentary (Book, Chapter, Verse) VALUES (27, 2, 44)`)
	require.NoError(t, err)

	rec, err := s.Get(ctx, daniel244)
	require.NoError(t, err)
	assert.Equal(t, "", rec.Content)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abc", 2))
	assert.Equal(t, "但以...", Truncate("但以理書", 2))
}
