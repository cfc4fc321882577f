package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrDuplicateID = errors.New("transaction id already exists")
)

// Ports for transaction persistence.
type (
	TransactionWriter interface {
		// Create assigns the id and creation time and stores the transaction.
		Create(ctx context.Context, in core.NewTransaction) (core.Transaction, error)
		// Update replaces the patched fields of the transaction with the given id.
		Update(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error)
		Delete(ctx context.Context, id int64) error
	}

	TransactionReader interface {
		Get(ctx context.Context, id int64) (core.Transaction, error)
		// List returns every transaction in creation order.
		List(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionStore interface {
		TransactionWriter
		TransactionReader
	}

	// Importer stores transactions that already carry an id and creation
	// time, such as a backup or a seed file.
	Importer interface {
		Import(ctx context.Context, txs []core.Transaction) error
	}
)
