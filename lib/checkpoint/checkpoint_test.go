package checkpoint

import (
	"context"
	"os"
	"parly-backend/lib/testutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 18, 16, 16, 43, 0, time.UTC)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "roles.checkpoint"))
	store.now = fixedNow

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	for _, id := range []int64{1, 25, 104512} {
		require.NoError(t, store.Save(ctx, id))

		cp, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, id, cp.ID)
		require.True(t, cp.SavedAt.Equal(fixedNow()))
	}

	contents, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.Equal(t, "104512\n2024-03-18T16:16:43Z\n", string(contents))

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// clearing twice is fine
	require.NoError(t, store.Clear(ctx))
}

func TestFileStoreCorrupt(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{name: "empty", contents: ""},
		{name: "truncated", contents: "123"},
		{name: "truncated with newline", contents: "123\n"},
		{name: "bad id", contents: "abc\n2024-03-18T16:16:43Z\n"},
		{name: "bad timestamp", contents: "123\nyesterday\n"},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "checkpoint.txt")
			require.NoError(t, os.WriteFile(path, []byte(test.contents), 0644))

			_, ok, err := NewFileStore(path).Load(context.Background())
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestFileStoreReadsOlderTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	require.NoError(t, os.WriteFile(path, []byte("42\n2025-10-22T21:43:56.992762"), 0644))

	cp, ok, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), cp.ID)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "checkpoint.txt"))
	for i := int64(0); i < 5; i++ {
		require.NoError(t, store.Save(context.Background(), i))
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDBStore(t *testing.T) {
	ctx := context.Background()
	database := testutil.OpenDB(t)

	roles := NewDBStore(database, "roles")
	roles.now = fixedNow
	votes := NewDBStore(database, "votes")

	_, ok, err := roles.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, roles.Save(ctx, 10))
	require.NoError(t, roles.Save(ctx, 20))
	require.NoError(t, votes.Save(ctx, 7))

	cp, ok, err := roles.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(20), cp.ID)
	require.True(t, cp.SavedAt.Equal(fixedNow()))

	require.NoError(t, roles.Clear(ctx))
	_, ok, err = roles.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	cp, ok, err = votes.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(7), cp.ID)
}

func TestStartIndex(t *testing.T) {
	ids := []int64{3, 5, 8, 13}
	require.Equal(t, 0, StartIndex(ids, Checkpoint{}, false))
	require.Equal(t, 2, StartIndex(ids, Checkpoint{ID: 5}, true))
	require.Equal(t, 4, StartIndex(ids, Checkpoint{ID: 13}, true))
	require.Equal(t, 0, StartIndex(ids, Checkpoint{ID: 6}, true))
}

func TestStartIndexAfter(t *testing.T) {
	ids := []int64{3, 5, 8, 13}
	cases := []struct {
		name     string
		cp       Checkpoint
		ok       bool
		expected int
	}{
		{name: "no checkpoint", cp: Checkpoint{ID: 8}, ok: false, expected: 0},
		{name: "listed", cp: Checkpoint{ID: 5}, ok: true, expected: 2},
		{name: "dropped from list", cp: Checkpoint{ID: 6}, ok: true, expected: 2},
		{name: "before first", cp: Checkpoint{ID: 1}, ok: true, expected: 0},
		{name: "past last", cp: Checkpoint{ID: 20}, ok: true, expected: 4},
		{name: "last", cp: Checkpoint{ID: 13}, ok: true, expected: 4},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, StartIndexAfter(ids, test.cp, test.ok))
		})
	}
}
