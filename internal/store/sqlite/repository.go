package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is a SQLite-backed transaction store. It also persists the
// custom category list.
type Repository struct {
	db      *sql.DB
	queries *Queries
	ids     *core.IDGenerator
	logger  *log.Logger
}

// Open opens (creating when needed) the database at dbPath and applies
// pending migrations. now stamps new transactions; ids resume after the
// highest one already stored.
func Open(ctx context.Context, dbPath string, now func() time.Time, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	queries := New(db)
	maxID, err := queries.MaxTransactionID(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read max id: %w", err)
	}
	ids := core.NewIDGenerator(now)
	ids.Observe(maxID)

	repo := &Repository{
		db:      db,
		queries: queries,
		ids:     ids,
		logger:  logger.WithComponent(log.ComponentStorage),
	}
	return repo, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Create(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	id, created := r.ids.Next()
	t := in.Build(id, created)
	if err := r.queries.InsertTransaction(ctx, toRow(t)); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved to SQLite",
		log.FieldTransactionID, t.ID,
		log.FieldTxType, string(t.Type),
		log.FieldAmount, string(t.Amount))
	return t, nil
}

// Import stores existing transactions keeping their ids. Nothing is stored
// when any id is already taken.
func (r *Repository) Import(ctx context.Context, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for _, t := range txs {
		if _, err := q.GetTransaction(ctx, t.ID); err == nil {
			return fmt.Errorf("import transaction %d: %w", t.ID, store.ErrDuplicateID)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get transaction %d: %w", t.ID, err)
		}
		if err := q.InsertTransaction(ctx, toRow(t)); err != nil {
			return fmt.Errorf("import transaction %d: %w", t.ID, err)
		}
		r.ids.Observe(t.ID)
	}
	return tx.Commit()
}

func (r *Repository) Update(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	row, err := q.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("update %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}

	updated, err := patch.Apply(fromRow(row))
	if err != nil {
		return core.Transaction{}, err
	}
	if _, err := q.UpdateTransaction(ctx, toRow(updated)); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return fromRow(row), nil
}

func (r *Repository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Load returns the persisted custom categories in insertion order.
func (r *Repository) Load(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListCustomCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	return names, nil
}

// Save replaces the persisted custom categories.
func (r *Repository) Save(ctx context.Context, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save categories: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.ClearCustomCategories(ctx); err != nil {
		return fmt.Errorf("clear custom categories: %w", err)
	}
	for i, name := range names {
		if err := q.InsertCustomCategory(ctx, i, name); err != nil {
			return fmt.Errorf("insert custom category %q: %w", name, err)
		}
	}
	return tx.Commit()
}

func toRow(t core.Transaction) transactionRow {
	var created int64
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.UnixMilli()
	}
	return transactionRow{
		ID:          t.ID,
		CreatedAt:   created,
		Amount:      string(t.Amount),
		Description: t.Description,
		Type:        string(t.Type),
		Category:    t.Category,
	}
}

func fromRow(r transactionRow) core.Transaction {
	t := core.Transaction{
		ID:          r.ID,
		Amount:      core.Amount(r.Amount),
		Description: r.Description,
		Type:        core.TxType(r.Type),
		Category:    r.Category,
	}
	if r.CreatedAt != 0 {
		t.CreatedAt = time.UnixMilli(r.CreatedAt)
	}
	return t
}
