package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/stats"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

var march2025 = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, c cache.Cache[any]) (*TransactionService, *memory.Store) {
	t.Helper()
	clock := func() time.Time { return march2025 }
	st := memory.New(clock)
	opts := []Option{WithClock(clock), WithLocation(time.UTC)}
	if c != nil {
		opts = append(opts, WithCache(c))
	}
	return NewTransactionService(st, opts...), st
}

func mustCreate(t *testing.T, s *TransactionService, amount, desc string, typ core.TxType, category string) core.Transaction {
	t.Helper()
	tx, err := s.Create(context.Background(), core.NewTransaction{
		Amount: core.Amount(amount), Description: desc, Type: typ, Category: category,
	})
	require.NoError(t, err)
	return tx
}

func TestTransactionService_MutationsBumpRevision(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, nil)
	assert.Equal(t, uint64(0), s.Revision())

	tx := mustCreate(t, s, "40", "groceries", core.Expense, "Food")
	assert.Equal(t, uint64(1), s.Revision())

	cat := "Bills"
	_, err := s.Update(ctx, tx.ID, core.TransactionPatch{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Revision())

	require.NoError(t, s.Delete(ctx, tx.ID))
	assert.Equal(t, uint64(3), s.Revision())

	// Failed mutations leave the revision alone.
	err = s.Delete(ctx, tx.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Create(ctx, core.NewTransaction{Amount: "", Description: "x", Type: core.Expense})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Equal(t, uint64(3), s.Revision())
}

func TestTransactionService_Views(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, nil)

	mustCreate(t, s, "100", "salary", core.Income, "General")
	mustCreate(t, s, "40", "groceries", core.Expense, "Food")
	mustCreate(t, s, "10", "power", core.Expense, "Bills")

	home, err := s.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, home.Balance)
	assert.Len(t, home.Recent, 3)

	tv, err := s.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, tv.Total)
	assert.Equal(t, 1, tv.IncomeCount)
	assert.Equal(t, 2, tv.ExpenseCount)

	dash, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, dash.Income)
	assert.Equal(t, 50.0, dash.Expenses)
	assert.Equal(t, stats.TrendNoPriorData, dash.Trend.Income.Status)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, dash.Total, len(list))
}

func TestTransactionService_CacheFollowsRevision(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRUCache[any](16, time.Hour)
	s, _ := newService(t, c)

	mustCreate(t, s, "20", "lunch", core.Expense, "Food")

	first, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Size())

	again, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, c.Size(), "second read is served from cache")

	mustCreate(t, s, "5", "coffee", core.Expense, "Food")

	updated, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Expenses)
	assert.Equal(t, 2, c.Size())
}

type failingStore struct{ *memory.Store }

func (f failingStore) List(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("database is locked")
}

func TestTransactionService_ListErrorPropagates(t *testing.T) {
	s := NewTransactionService(failingStore{memory.New(nil)})

	_, err := s.Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list transactions")
}

func TestTransactionService_ConcurrentCreates(t *testing.T) {
	s, _ := newService(t, cache.NewLRUCache[any](8, time.Minute))

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.Create(context.Background(), core.NewTransaction{Amount: "1", Description: "tick", Type: core.Expense})
			if err == nil {
				ids <- tx.ID
			}
			_, _ = s.Home(context.Background())
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, uint64(n), s.Revision())

	home, err := s.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(n), home.Expenses)
}

func TestTransactionService_CachedViewsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t, cache.NewLRUCache[any](8, time.Minute))
	mustCreate(t, s, "40", "groceries", core.Expense, "Food")
	mustCreate(t, s, "100", "salary", core.Income, "General")

	first, err := s.Dashboard(ctx)
	require.NoError(t, err)
	first.Categories["food"] = 0
	first.Recent[0].Description = "tampered"
	first.TopCategories[0].Amount = 0

	second, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, second.Categories["food"])
	assert.Equal(t, "salary", second.Recent[0].Description)
	assert.Equal(t, 100.0, second.TopCategories[0].Amount)

	home, err := s.Home(ctx)
	require.NoError(t, err)
	home.Recent[0].Description = "tampered"
	again, err := s.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, "salary", again.Recent[0].Description)
}
