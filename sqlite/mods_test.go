package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/modwiki"
	"github.com/fwojciec/modwiki/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newRecord(name, category, source string) *modwiki.ModRecord {
	r := modwiki.NewModRecord(name, category)
	r.Description = name + " description"
	r.SourceURL = source
	r.LastSeen = testTime
	return r
}

func TestModStore_ReplaceAll(t *testing.T) {
	t.Parallel()

	t.Run("stores every field", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()

		want := newRecord("Ünïcødé Jokers", "Joker Mods", "https://github.com/example/unicode")
		want.WikiURL = "https://wiki.test/wiki/Unicode"
		want.Author = "Ada"
		want.Tags = []string{"Joker Mods", "Content Mods"}

		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{want}, testTime))

		got, err := store.Get(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.SourceURL, got.SourceURL)
		assert.Equal(t, want.WikiURL, got.WikiURL)
		assert.Equal(t, want.Author, got.Author)
		assert.Equal(t, want.Tags, got.Tags)
		assert.True(t, want.LastSeen.Equal(got.LastSeen))
	})

	t.Run("replaces the previous generation", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Cryptid", "Content Mods", ""),
			newRecord("Talisman", "Technical Mods", ""),
		}, testTime))
		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Talisman", "Quality of Life Mods", ""),
			newRecord("Bunco", "Content Mods", ""),
		}, testTime.Add(time.Hour)))

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "bunco", records[0].ID)
		assert.Equal(t, "talisman", records[1].ID)
		assert.Equal(t, "Quality of Life Mods", records[1].Category)

		_, err = store.Get(ctx, "cryptid")
		assert.Equal(t, modwiki.ENOTFOUND, modwiki.ErrorCode(err))
	})

	t.Run("rolls back on failure and keeps prior generation", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Cryptid", "Content Mods", ""),
		}, testTime))
		before, err := store.Freshness(ctx)
		require.NoError(t, err)

		// Duplicate IDs violate the primary key halfway through the insert.
		err = store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Bunco", "Content Mods", ""),
			newRecord("Bunco", "Joker Mods", ""),
		}, testTime.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, modwiki.ESTORE, modwiki.ErrorCode(err))

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "cryptid", records[0].ID)

		after, err := store.Freshness(ctx)
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID)
	})

	t.Run("rejects invalid records before writing", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Cryptid", "Content Mods", ""),
		}, testTime))

		bad := newRecord("Bunco", "Content Mods", "")
		bad.ID = "not-bunco"
		err := store.ReplaceAll(ctx, []*modwiki.ModRecord{bad}, testTime)

		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(err))
		_, err = store.Get(ctx, "cryptid")
		assert.NoError(t, err)
	})

	t.Run("empty set is a valid generation", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.ReplaceAll(ctx, nil, testTime))

		gen, err := store.Freshness(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, gen.Count)
		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestModStore_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))

		_, err := store.Get(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, modwiki.ENOTFOUND, modwiki.ErrorCode(err))
	})

	t.Run("record without repository is not installable", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Wiki Only", "Content Mods", ""),
		}, testTime))

		got, err := store.Get(ctx, "wiki only")
		require.NoError(t, err)

		_, ok := got.InstallTarget()
		assert.False(t, ok)
		assert.Nil(t, got.Tags)
	})
}

func TestModStore_Freshness(t *testing.T) {
	t.Parallel()

	t.Run("returns not found before first update", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))

		_, err := store.Freshness(context.Background())

		assert.Equal(t, modwiki.ENOTFOUND, modwiki.ErrorCode(err))
	})

	t.Run("reports timestamp, count and a new ID per generation", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewModStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.ReplaceAll(ctx, []*modwiki.ModRecord{
			newRecord("Cryptid", "Content Mods", ""),
			newRecord("Bunco", "Content Mods", ""),
		}, testTime))
		first, err := store.Freshness(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, first.Count)
		assert.True(t, testTime.Equal(first.UpdatedAt))
		assert.NotEmpty(t, first.ID)

		require.NoError(t, store.ReplaceAll(ctx, nil, testTime.Add(time.Hour)))
		second, err := store.Freshness(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, time.Hour, second.Age(testTime.Add(2*time.Hour)))
	})
}
