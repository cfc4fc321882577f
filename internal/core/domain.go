package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// DefaultCategory is assigned to transactions recorded without a category.
const DefaultCategory = "General"

// BuiltinCategories are always offered for selection, ahead of any custom ones.
var BuiltinCategories = []string{"General", "Food", "Shopping", "Bills", "Entertainment", "Other"}

type (
	TxType string

	// Transaction is a single recorded income or expense event.
	Transaction struct {
		ID          int64     `json:"id"`
		CreatedAt   time.Time `json:"createdAt"`
		Amount      Amount    `json:"amount"`
		Description string    `json:"description"`
		Type        TxType    `json:"type"`
		Category    string    `json:"category"`
	}

	// NewTransaction carries the user supplied fields of a transaction about
	// to be created. ID and CreatedAt are assigned by the store.
	NewTransaction struct {
		Amount      Amount `json:"amount"`
		Description string `json:"description"`
		Type        TxType `json:"type"`
		Category    string `json:"category"`
	}

	// TransactionPatch replaces the non-nil fields of an existing transaction.
	TransactionPatch struct {
		Amount      *Amount `json:"amount,omitempty"`
		Description *string `json:"description,omitempty"`
		Type        *TxType `json:"type,omitempty"`
		Category    *string `json:"category,omitempty"`
	}
)

var (
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
)

// IsValidation reports whether err comes from rejected user input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidType)
}

// Kind reports the type used for aggregation. Anything other than income,
// including a missing type, aggregates as an expense.
func (t Transaction) Kind() TxType {
	if t.Type == Income {
		return Income
	}
	return Expense
}

// Value is the amount coerced to a float, 0 when it is not numeric.
func (t Transaction) Value() float64 {
	return t.Amount.Float()
}

// CategoryLabel returns the display category, defaulting blanks to General.
func (t Transaction) CategoryLabel() string {
	if strings.TrimSpace(t.Category) == "" {
		return DefaultCategory
	}
	return t.Category
}

// CategoryKey is the case-insensitive aggregation key of the category.
func (t Transaction) CategoryKey() string {
	return strings.ToLower(t.CategoryLabel())
}

// Timestamp is the creation instant. Records that only carry an id (older
// exports) fall back to the id read as milliseconds since the epoch.
func (t Transaction) Timestamp() time.Time {
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt
	}
	return time.UnixMilli(t.ID)
}

func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

func (n NewTransaction) Validate() error {
	if len(strings.TrimSpace(n.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(n.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(string(n.Amount)) == "" {
		return ErrInvalidAmount
	}
	if v, ok := n.Amount.Parse(); !ok || v < 0 {
		return ErrInvalidAmount
	}
	if !n.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// Build turns validated input into a transaction with the given identity.
func (n NewTransaction) Build(id int64, createdAt time.Time) Transaction {
	category := strings.TrimSpace(n.Category)
	if category == "" {
		category = DefaultCategory
	}
	return Transaction{
		ID:          id,
		CreatedAt:   createdAt,
		Amount:      n.Amount,
		Description: strings.TrimSpace(n.Description),
		Type:        n.Type,
		Category:    category,
	}
}

// Apply returns a copy of t with the patch applied. ID and CreatedAt never change.
func (p TransactionPatch) Apply(t Transaction) (Transaction, error) {
	next := NewTransaction{
		Amount:      t.Amount,
		Description: t.Description,
		Type:        t.Type,
		Category:    t.Category,
	}
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Type != nil {
		next.Type = *p.Type
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if err := next.Validate(); err != nil {
		return t, err
	}
	return next.Build(t.ID, t.CreatedAt), nil
}
