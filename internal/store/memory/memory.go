package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/txfile"
)

// SeedFile is read by NewFromDir when present.
const SeedFile = "seed_transactions.json"

type Store struct {
	mu    sync.Mutex
	ids   *core.IDGenerator
	items []core.Transaction
	// dir receives the seed file on Flush; empty means nothing is written.
	dir string
}

func New(now func() time.Time) *Store {
	return &Store{ids: core.NewIDGenerator(now)}
}

// NewFromDir creates a store seeded from base/seed_transactions.json, a JSON
// array of transactions. A missing or unreadable seed leaves the store empty.
func NewFromDir(base string, now func() time.Time) *Store {
	s := New(now)
	s.dir = base
	seed, err := txfile.ReadFile(filepath.Join(base, SeedFile))
	if err != nil {
		return s
	}
	s.Seed(seed)
	return s
}

// Seed appends existing transactions as-is, keeping their ids. A row whose
// id is already present is skipped and counted in the result.
func (s *Store) Seed(txs []core.Transaction) (skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]bool, len(s.items)+len(txs))
	for _, t := range s.items {
		seen[t.ID] = true
	}
	for _, t := range txs {
		if seen[t.ID] {
			skipped++
			continue
		}
		seen[t.ID] = true
		s.items = append(s.items, t)
		s.ids.Observe(t.ID)
	}
	return skipped
}

// Import adds existing transactions keeping their ids. The batch is rejected
// as a whole when any id is already taken.
func (s *Store) Import(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]bool, len(s.items)+len(txs))
	for _, t := range s.items {
		seen[t.ID] = true
	}
	for _, t := range txs {
		if seen[t.ID] {
			return fmt.Errorf("import transaction %d: %w", t.ID, store.ErrDuplicateID)
		}
		seen[t.ID] = true
	}
	for _, t := range txs {
		s.items = append(s.items, t)
		s.ids.Observe(t.ID)
	}
	return nil
}

// Flush writes the current transactions to the seed file of the directory
// the store was loaded from, so the next NewFromDir sees them.
func (s *Store) Flush() error {
	if s.dir == "" {
		return nil
	}
	s.mu.Lock()
	items := append([]core.Transaction{}, s.items...)
	s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	path := filepath.Join(s.dir, SeedFile)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create seed file: %w", err)
	}
	if err := txfile.WriteJSON(f, items); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write seed file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close seed file: %w", err)
	}
	return os.Rename(tmp, path)
}

func (s *Store) Create(_ context.Context, in core.NewTransaction) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, created := s.ids.Next()
	t := in.Build(id, created)
	s.items = append(s.items, t)
	return t, nil
}

func (s *Store) Update(_ context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("update %d: %w", id, store.ErrNotFound)
	}
	updated, err := patch.Apply(s.items[i])
	if err != nil {
		return core.Transaction{}, err
	}
	s.items[i] = updated
	return updated, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, store.ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("get %d: %w", id, store.ErrNotFound)
	}
	return s.items[i], nil
}

// List returns a copy; callers may reorder it freely.
func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.items...), nil
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}
