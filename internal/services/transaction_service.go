package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/stats"
	"fintrack/internal/store"
)

// Stats view names, also used in cache keys and logs.
const (
	ViewHome         = "home"
	ViewTransactions = "transactions"
	ViewDashboard    = "dashboard"
)

// TransactionService is the single writer over a transaction store. Every
// successful mutation bumps the revision, which keys the stats cache so a
// summary is never served for a stale collection.
type TransactionService struct {
	mu       sync.Mutex
	store    store.TransactionStore
	revision uint64

	cache  cache.Cache[any]
	now    func() time.Time
	loc    *time.Location
	logger *log.Logger
	events *log.StructuredLogger
}

type Option func(*TransactionService)

// WithCache memoizes computed views.
func WithCache(c cache.Cache[any]) Option {
	return func(s *TransactionService) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *TransactionService) { s.now = now }
}

// WithLocation sets the zone used to bucket transactions into months.
func WithLocation(loc *time.Location) Option {
	return func(s *TransactionService) { s.loc = loc }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *TransactionService) { s.logger = logger }
}

func NewTransactionService(st store.TransactionStore, opts ...Option) *TransactionService {
	s := &TransactionService{
		store:  st,
		now:    time.Now,
		loc:    time.Local,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentTransaction)
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

func (s *TransactionService) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *TransactionService) Create(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Create(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.revision++
	s.events.LogTransactionChanged(ctx, log.OpCreate, t.ID, string(t.Type), string(t.Amount), t.Category, s.revision)
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.revision++
	s.events.LogTransactionChanged(ctx, log.OpUpdate, t.ID, string(t.Type), string(t.Amount), t.Category, s.revision)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.revision++
	s.events.LogTransactionChanged(ctx, log.OpDelete, id, "", "", "", s.revision)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// List returns the collection in insertion order.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, _, err := s.snapshot(ctx)
	return txs, err
}

func (s *TransactionService) Home(ctx context.Context) (stats.HomeView, error) {
	return computeView(ctx, s, ViewHome, func(txs []core.Transaction, _ time.Time) stats.HomeView {
		return stats.Home(txs)
	})
}

func (s *TransactionService) Transactions(ctx context.Context) (stats.TransactionsView, error) {
	return computeView(ctx, s, ViewTransactions, func(txs []core.Transaction, _ time.Time) stats.TransactionsView {
		return stats.Transactions(txs)
	})
}

func (s *TransactionService) Dashboard(ctx context.Context) (stats.Summary, error) {
	return computeView(ctx, s, ViewDashboard, func(txs []core.Transaction, now time.Time) stats.Summary {
		return stats.Dashboard(txs, now, s.loc)
	})
}

func (s *TransactionService) snapshot(ctx context.Context) ([]core.Transaction, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, s.revision, nil
}

// computeView snapshots the collection under the write lock and computes
// the view outside it, consulting the cache first.
func computeView[T any](ctx context.Context, s *TransactionService, view string, compute func([]core.Transaction, time.Time) T) (T, error) {
	var zero T

	now := s.now()
	s.mu.Lock()
	rev := s.revision
	s.mu.Unlock()

	key := cacheKey(rev, view, now.In(s.loc))
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if out, ok := v.(T); ok {
				return cloneView(out), nil
			}
		}
	}

	txs, snapRev, err := s.snapshot(ctx)
	if err != nil {
		return zero, err
	}

	start := time.Now()
	out := compute(txs, now)
	s.logger.DebugContext(ctx, "Stats computed",
		log.FieldView, view,
		log.FieldCount, len(txs),
		log.FieldRevision, snapRev,
		log.FieldDuration, time.Since(start).Milliseconds())

	if s.cache != nil {
		s.cache.Set(cacheKey(snapRev, view, now.In(s.loc)), out)
		return cloneView(out), nil
	}
	return out, nil
}

// cloneView copies the maps and slices of a view so callers never share
// them with the cached value.
func cloneView[T any](v T) T {
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return v
}

func cacheKey(revision uint64, view string, now time.Time) string {
	return fmt.Sprintf("%d|%s|%s", revision, view, now.Format("2006-01"))
}
