package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// transactionRow mirrors the transactions table.
type transactionRow struct {
	ID          int64
	CreatedAt   int64
	Amount      string
	Description string
	Type        string
	Category    string
}

const transactionColumns = `id, created_at, amount, description, type, category`

const insertTransaction = `INSERT INTO transactions (` + transactionColumns + `)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, r transactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		r.ID, r.CreatedAt, r.Amount, r.Description, r.Type, r.Category)
	return err
}

const updateTransaction = `UPDATE transactions
SET amount = ?, description = ?, type = ?, category = ?
WHERE id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, r transactionRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		r.Amount, r.Description, r.Type, r.Category, r.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (transactionRow, error) {
	var r transactionRow
	err := q.db.QueryRowContext(ctx, getTransaction, id).Scan(
		&r.ID, &r.CreatedAt, &r.Amount, &r.Description, &r.Type, &r.Category)
	return r, err
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions ORDER BY rowid`

func (q *Queries) ListTransactions(ctx context.Context) ([]transactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []transactionRow
	for rows.Next() {
		var r transactionRow
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Amount, &r.Description, &r.Type, &r.Category); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const maxTransactionID = `SELECT COALESCE(MAX(id), 0) FROM transactions`

func (q *Queries) MaxTransactionID(ctx context.Context) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, maxTransactionID).Scan(&id)
	return id, err
}

const listCustomCategories = `SELECT name FROM custom_categories ORDER BY position`

func (q *Queries) ListCustomCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCustomCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

const clearCustomCategories = `DELETE FROM custom_categories`

func (q *Queries) ClearCustomCategories(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, clearCustomCategories)
	return err
}

const insertCustomCategory = `INSERT INTO custom_categories (position, name) VALUES (?, ?)`

func (q *Queries) InsertCustomCategory(ctx context.Context, position int, name string) error {
	_, err := q.db.ExecContext(ctx, insertCustomCategory, position, name)
	return err
}
