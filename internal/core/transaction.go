package core

import (
	"errors"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is a single ledger movement. Amount is a positive
	// magnitude; Type carries the direction.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Date        Date            `json:"date"`
		Category    string          `json:"category"`
		Icon        string          `json:"icon"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// IsValid reports whether the type is one of the two known kinds.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (tx Transaction) Validate() error {
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Matches reports whether the transaction satisfies a free-text search
// over description and category, case-insensitively.
func (tx Transaction) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(tx.Description), q) ||
		strings.Contains(strings.ToLower(tx.Category), q)
}
