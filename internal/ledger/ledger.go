// Package ledger maintains the in-memory FinancialData aggregate and
// keeps its derived fields consistent across mutations.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"wealthify/internal/core"
	"wealthify/internal/log"
)

// RecentWindow caps the most-recent-first transaction view. Older
// entries fall out of the view only, not out of any backing store.
const RecentWindow = 10

// Slot is the durable key-value slot the aggregate is persisted to
// after every mutation.
type Slot interface {
	SaveAggregate(ctx context.Context, data core.FinancialData) error
	LoadAggregate(ctx context.Context) (core.FinancialData, bool, error)
	ClearAggregate(ctx context.Context) error
}

// Ledger owns a FinancialData aggregate. All mutations are serialized
// through a single mutex; every successful mutation is written to the
// slot wholesale before it returns. A failed slot write rolls the
// in-memory state back, so memory and slot never diverge.
type Ledger struct {
	mu   sync.Mutex
	data core.FinancialData
	slot Slot
}

// New rehydrates the aggregate from the slot when a parseable snapshot
// exists, otherwise starts from the seeded defaults.
func New(ctx context.Context, slot Slot) (*Ledger, error) {
	l := &Ledger{slot: slot, data: DefaultData()}
	if slot == nil {
		return l, nil
	}
	saved, ok, err := slot.LoadAggregate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aggregate: %w", err)
	}
	if ok {
		l.data = saved
		slog.InfoContext(ctx, "Ledger rehydrated from slot",
			"recent_transactions", len(saved.RecentTransactions),
			"categories", len(saved.SpendingCategories))
	}
	return l, nil
}

// Data returns a deep copy of the current aggregate.
func (l *Ledger) Data() core.FinancialData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.Clone()
}

// AddTransaction ingests one movement: it prepends the transaction to
// the recent window, shifts the balance by the amount in the direction
// of the type, and for expenses folds the amount into the category
// breakdown and recomputes every share.
//
// Validation is the caller's job; an ID is generated when absent and
// the icon is resolved from the category when empty.
func (l *Ledger) AddTransaction(ctx context.Context, tx core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.data.Clone()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Icon == "" {
		tx.Icon = core.StyleFor(tx.Category).Icon
	}

	recent := append([]core.Transaction{tx}, l.data.RecentTransactions...)
	if len(recent) > RecentWindow {
		recent = recent[:RecentWindow]
	}
	l.data.RecentTransactions = recent

	switch tx.Type {
	case core.Income:
		l.data.TotalBalance.Cents += tx.Amount.Cents
		l.data.MonthlyIncome.Cents += tx.Amount.Cents
	case core.Expense:
		l.data.TotalBalance.Cents -= tx.Amount.Cents
		l.data.MonthlyExpenses.Cents += tx.Amount.Cents
		l.applyExpenseToBreakdown(tx)
	}

	slog.InfoContext(ctx, "Transaction ingested",
		log.NewFields().
			WithTransaction(tx.ID, tx.Category, tx.Amount.Cents).
			WithOperation(log.OpCreate).
			WithComponent(log.ComponentLedger).
			ToSlice()...)

	return l.persistOrRestore(ctx, prev)
}

func (l *Ledger) applyExpenseToBreakdown(tx core.Transaction) {
	found := false
	for i := range l.data.SpendingCategories {
		if l.data.SpendingCategories[i].Category == tx.Category {
			l.data.SpendingCategories[i].Amount.Cents += tx.Amount.Cents
			found = true
			break
		}
	}
	if !found {
		style := core.StyleFor(tx.Category)
		l.data.SpendingCategories = append(l.data.SpendingCategories, core.CategoryBreakdown{
			Category: tx.Category,
			Amount:   tx.Amount,
			Color:    style.Color,
			Icon:     style.Icon,
		})
	}
	core.RecomputePercentages(l.data.SpendingCategories)
}

// UpdateSavings sets currentSavings unconditionally.
func (l *Ledger) UpdateSavings(ctx context.Context, amount core.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.data.Clone()
	l.data.CurrentSavings = amount
	return l.persistOrRestore(ctx, prev)
}

// UpdateSavingsGoal sets savingsGoal unconditionally.
func (l *Ledger) UpdateSavingsGoal(ctx context.Context, amount core.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.data.Clone()
	l.data.SavingsGoal = amount
	return l.persistOrRestore(ctx, prev)
}

// Reset discards persisted state and restores the default aggregate.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data = DefaultData()
	if l.slot == nil {
		return nil
	}
	if err := l.slot.ClearAggregate(ctx); err != nil {
		return fmt.Errorf("clear aggregate slot: %w", err)
	}
	return nil
}

// Replace swaps the whole aggregate, used when a collaborator fetch
// completes and the remote view wins over the local one.
func (l *Ledger) Replace(ctx context.Context, data core.FinancialData) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.data.Clone()
	l.data = data.Clone()
	return l.persistOrRestore(ctx, prev)
}

// persistOrRestore expects the mutex held. When the slot write fails the
// mutation is undone, so callers reporting the error never leave a
// phantom change behind.
func (l *Ledger) persistOrRestore(ctx context.Context, prev core.FinancialData) error {
	if l.slot == nil {
		return nil
	}
	if err := l.slot.SaveAggregate(ctx, l.data); err != nil {
		l.data = prev
		return fmt.Errorf("persist aggregate: %w", err)
	}
	return nil
}
