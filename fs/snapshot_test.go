package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/modwiki"
	"github.com/fwojciec/modwiki/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newRecord(name, category string) *modwiki.ModRecord {
	r := modwiki.NewModRecord(name, category)
	r.LastSeen = testTime
	return r
}

func TestSnapshotStore_ReplaceAll(t *testing.T) {
	t.Parallel()

	t.Run("writes snapshot and removes temp file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cache", "mods.json")
		store := fs.NewSnapshotStore(path)
		ctx := context.Background()

		pack := newRecord("Joker Pack", "Joker Mods")
		pack.SourceURL = "https://github.com/example/JokerPack"
		pack.Tags = []string{"Joker Mods"}
		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Talisman", "Technical Mods"),
			pack,
		}, testTime))

		assert.FileExists(t, path)
		assert.NoFileExists(t, path+".tmp")

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "joker pack", records[0].ID)
		assert.Equal(t, "talisman", records[1].ID)

		got, err := store.Get(ctx, "joker pack")
		require.NoError(t, err)
		assert.Equal(t, pack.SourceURL, got.SourceURL)
		assert.Equal(t, pack.Tags, got.Tags)
	})

	t.Run("failed swap keeps previous generation", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "mods.json")
		store := fs.NewSnapshotStore(path)
		ctx := context.Background()

		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{newRecord("Cryptid", "Content Mods")}, testTime))
		before, err := store.Freshness(ctx)
		require.NoError(t, err)

		// A directory in place of the temp file makes the write fail.
		require.NoError(t, os.Mkdir(path+".tmp", 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(path+".tmp", "keep"), nil, 0o644))

		err = store.ReplaceAll(ctx, []*modwiki.ModRecord{newRecord("Bunco", "Content Mods")}, testTime.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, modwiki.ESTORE, modwiki.ErrorCode(err))

		after, err := store.Freshness(ctx)
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID)
		_, err = store.Get(ctx, "cryptid")
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "mods.json"))

		err := store.ReplaceAll(context.Background(), []*modwiki.ModRecord{
			newRecord("Bunco", "Content Mods"),
			newRecord("BUNCO", "Joker Mods"),
		}, testTime)

		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(err))
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "mods.json"))
		bad := newRecord("Bunco", "Content Mods")
		bad.Name = ""

		err := store.ReplaceAll(context.Background(), []*modwiki.ModRecord{bad}, testTime)

		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(err))
	})
}

func TestSnapshotStore_EmptyCache(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "mods.json"))
	ctx := context.Background()

	_, err := store.Freshness(ctx)
	assert.Equal(t, modwiki.ENOTFOUND, modwiki.ErrorCode(err))

	_, err = store.Get(ctx, "cryptid")
	assert.Equal(t, modwiki.ENOTFOUND, modwiki.ErrorCode(err))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mods.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := fs.NewSnapshotStore(path).List(context.Background())

	assert.Equal(t, modwiki.ESTORE, modwiki.ErrorCode(err))
}

func TestSnapshotStore_Freshness(t *testing.T) {
	t.Parallel()

	store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "mods.json"))
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{newRecord("Cryptid", "Content Mods")}, testTime))

	gen, err := store.Freshness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.Count)
	assert.True(t, testTime.Equal(gen.UpdatedAt))
	assert.NotEmpty(t, gen.ID)
}
