package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(fixedClock(1_000))

	a, err := s.Create(ctx, core.NewTransaction{Amount: "10", Description: "coffee", Type: core.Expense, Category: "Food"})
	require.NoError(t, err)
	b, err := s.Create(ctx, core.NewTransaction{Amount: "500", Description: "salary", Type: core.Income})
	require.NoError(t, err)

	assert.Equal(t, int64(1_000), a.ID)
	assert.Equal(t, int64(1_001), b.ID, "ids stay unique within the same millisecond")
	assert.Equal(t, core.DefaultCategory, b.Category)

	desc := "flat white"
	updated, err := s.Update(ctx, a.ID, core.TransactionPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "flat white", updated.Description)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestMemoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	_, err := s.Create(ctx, core.NewTransaction{Amount: "10", Description: "", Type: core.Expense})
	assert.ErrorIs(t, err, core.ErrEmptyDescription)

	assert.ErrorIs(t, s.Delete(ctx, 42), store.ErrNotFound)

	desc := "x"
	_, err = s.Update(ctx, 42, core.TransactionPatch{Description: &desc})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	_, err := s.Create(ctx, core.NewTransaction{Amount: "1", Description: "a", Type: core.Expense})
	require.NoError(t, err)

	list, _ := s.List(ctx)
	list[0].Description = "mutated"

	again, _ := s.List(ctx)
	assert.Equal(t, "a", again[0].Description)
}

func TestNewFromDirSeeds(t *testing.T) {
	dir := t.TempDir()

	// No seed file -> empty store
	s := NewFromDir(dir, nil)
	list, _ := s.List(context.Background())
	assert.Empty(t, list)

	seed := `[{"id":5000,"amount":12,"description":"old","type":"expense","category":"Food"},
	          {"id":6000,"amount":"abc","description":"odd","type":"income","category":"Other"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SeedFile), []byte(seed), 0o644))

	s = NewFromDir(dir, fixedClock(10))
	list, _ = s.List(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, core.Amount("abc"), list[1].Amount)

	created, err := s.Create(context.Background(), core.NewTransaction{Amount: "1", Description: "new", Type: core.Expense})
	require.NoError(t, err)
	assert.Equal(t, int64(6001), created.ID, "new ids sort after seeded ones")
}

func TestImportAndFlush(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFromDir(dir, fixedClock(10))

	require.NoError(t, s.Import(ctx, []core.Transaction{
		{ID: 100, Amount: "5", Description: "a", Type: core.Expense},
		{ID: 200, Amount: "x", Description: "b", Type: core.Income},
	}))
	err := s.Import(ctx, []core.Transaction{{ID: 300}, {ID: 200}})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	list, _ := s.List(ctx)
	assert.Len(t, list, 2)

	require.NoError(t, s.Flush())
	reloaded := NewFromDir(dir, fixedClock(10))
	again, _ := reloaded.List(ctx)
	assert.Equal(t, list, again)

	// Stores without a directory have nothing to flush.
	assert.NoError(t, New(nil).Flush())
}

func TestSeedSkipsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	seed := `[{"id":7,"amount":1,"description":"first","type":"expense"},
	          {"id":7,"amount":2,"description":"copy","type":"expense"},
	          {"id":8,"amount":3,"description":"other","type":"income"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SeedFile), []byte(seed), 0o644))

	s := NewFromDir(dir, fixedClock(1))
	list, _ := s.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Description)

	require.NoError(t, s.Delete(ctx, 7))
	_, err := s.Get(ctx, 7)
	assert.ErrorIs(t, err, store.ErrNotFound, "no hidden duplicate remains")

	assert.Equal(t, 1, s.Seed([]core.Transaction{{ID: 8}, {ID: 9}}))
}
