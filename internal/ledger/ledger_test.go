package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"wealthify/internal/core"
)

// memSlot keeps the serialized aggregate in memory, mimicking the
// durable slot without touching disk.
type memSlot struct {
	blob  []byte
	saves int
}

func (s *memSlot) SaveAggregate(_ context.Context, data core.FinancialData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.blob = b
	s.saves++
	return nil
}

func (s *memSlot) LoadAggregate(_ context.Context) (core.FinancialData, bool, error) {
	if s.blob == nil {
		return core.FinancialData{}, false, nil
	}
	var data core.FinancialData
	if err := json.Unmarshal(s.blob, &data); err != nil {
		return core.FinancialData{}, false, err
	}
	return data, true, nil
}

func (s *memSlot) ClearAggregate(_ context.Context) error {
	s.blob = nil
	return nil
}

// failingSlot rejects every write after the first allowed count.
type failingSlot struct {
	memSlot
	failAfter int
}

func (s *failingSlot) SaveAggregate(ctx context.Context, data core.FinancialData) error {
	if s.saves >= s.failAfter {
		return fmt.Errorf("disk full")
	}
	return s.memSlot.SaveAggregate(ctx, data)
}

func emptyLedger(t *testing.T, balanceCents int64) *Ledger {
	t.Helper()
	l, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	l.data = core.FinancialData{
		AccountSnapshot: core.AccountSnapshot{TotalBalance: core.Money{Cents: balanceCents}},
	}
	return l
}

func expense(desc, category string, cents int64) core.Transaction {
	return core.Transaction{
		Type:        core.Expense,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        core.NewDate(2024, 1, 17),
		Category:    category,
	}
}

func income(desc string, cents int64) core.Transaction {
	return core.Transaction{
		Type:        core.Income,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        core.NewDate(2024, 1, 15),
		Category:    "Salary",
	}
}

func TestExpenseScenario(t *testing.T) {
	// Starting from balance 1000 with an empty breakdown, two 200
	// expenses in distinct categories split the breakdown 50/50.
	l := emptyLedger(t, 100000)
	ctx := context.Background()

	if err := l.AddTransaction(ctx, expense("Groceries", "Food", 20000)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.AddTransaction(ctx, expense("Bus pass", "Transport", 20000)); err != nil {
		t.Fatalf("add: %v", err)
	}

	d := l.Data()
	if d.TotalBalance.Cents != 60000 {
		t.Fatalf("balance = %d, want 60000", d.TotalBalance.Cents)
	}
	if d.MonthlyExpenses.Cents != 40000 {
		t.Fatalf("monthly expenses = %d, want 40000", d.MonthlyExpenses.Cents)
	}
	if len(d.SpendingCategories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(d.SpendingCategories))
	}
	for _, c := range d.SpendingCategories {
		if c.Amount.Cents != 20000 || c.Percentage != 50 {
			t.Fatalf("category %s: amount=%d percentage=%d", c.Category, c.Amount.Cents, c.Percentage)
		}
	}
}

func TestIncomeLeavesBreakdownAlone(t *testing.T) {
	l := emptyLedger(t, 100000)
	ctx := context.Background()
	if err := l.AddTransaction(ctx, expense("Groceries", "Food", 20000)); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := l.Data()

	if err := l.AddTransaction(ctx, income("Salary Deposit", 50000)); err != nil {
		t.Fatalf("add: %v", err)
	}
	d := l.Data()
	if d.TotalBalance.Cents != before.TotalBalance.Cents+50000 {
		t.Fatalf("balance = %d", d.TotalBalance.Cents)
	}
	if d.MonthlyIncome.Cents != 50000 {
		t.Fatalf("monthly income = %d", d.MonthlyIncome.Cents)
	}
	if d.MonthlyExpenses.Cents != before.MonthlyExpenses.Cents {
		t.Fatalf("monthly expenses changed: %d", d.MonthlyExpenses.Cents)
	}
	if !reflect.DeepEqual(d.SpendingCategories, before.SpendingCategories) {
		t.Fatalf("breakdown changed on income")
	}
}

func TestFirstExpenseGetsFullShare(t *testing.T) {
	l := emptyLedger(t, 0)
	if err := l.AddTransaction(context.Background(), expense("Rent", "Housing", 120000)); err != nil {
		t.Fatalf("add: %v", err)
	}
	d := l.Data()
	if len(d.SpendingCategories) != 1 || d.SpendingCategories[0].Percentage != 100 {
		t.Fatalf("expected single 100%% category, got %+v", d.SpendingCategories)
	}
}

func TestBalanceConservation(t *testing.T) {
	l := emptyLedger(t, 500000)
	ctx := context.Background()

	var incomeSum, expenseSum int64
	for i := 0; i < 25; i++ {
		cents := int64(100 * (i + 1))
		if i%3 == 0 {
			incomeSum += cents
			if err := l.AddTransaction(ctx, income(fmt.Sprintf("in-%d", i), cents)); err != nil {
				t.Fatalf("add: %v", err)
			}
		} else {
			expenseSum += cents
			cat := []string{"Food", "Transport", "Entertainment"}[i%3]
			if err := l.AddTransaction(ctx, expense(fmt.Sprintf("out-%d", i), cat, cents)); err != nil {
				t.Fatalf("add: %v", err)
			}
		}
	}

	d := l.Data()
	want := 500000 + incomeSum - expenseSum
	if d.TotalBalance.Cents != want {
		t.Fatalf("balance = %d, want %d", d.TotalBalance.Cents, want)
	}

	// Percentage sum stays within rounding slack of 100.
	sum := 0
	for _, c := range d.SpendingCategories {
		if c.Percentage < 0 || c.Percentage > 100 {
			t.Fatalf("percentage out of range: %d", c.Percentage)
		}
		sum += c.Percentage
	}
	n := len(d.SpendingCategories)
	if sum < 100-n || sum > 100+n {
		t.Fatalf("percentage sum %d outside slack for %d categories", sum, n)
	}
}

func TestRecentWindowBound(t *testing.T) {
	l := emptyLedger(t, 0)
	ctx := context.Background()
	for i := 0; i < RecentWindow+5; i++ {
		if err := l.AddTransaction(ctx, income(fmt.Sprintf("tx-%d", i), 100)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	d := l.Data()
	if len(d.RecentTransactions) != RecentWindow {
		t.Fatalf("window length = %d, want %d", len(d.RecentTransactions), RecentWindow)
	}
	// Strictly most-recent-first.
	for i, tx := range d.RecentTransactions {
		want := fmt.Sprintf("tx-%d", RecentWindow+5-1-i)
		if tx.Description != want {
			t.Fatalf("position %d: got %q, want %q", i, tx.Description, want)
		}
	}
}

func TestPersistEveryMutationAndRoundTrip(t *testing.T) {
	slot := &memSlot{}
	ctx := context.Background()
	l, err := New(ctx, slot)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := l.AddTransaction(ctx, expense("Coffee", "Food", 450)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.UpdateSavings(ctx, core.Money{Cents: 123456}); err != nil {
		t.Fatalf("savings: %v", err)
	}
	if err := l.UpdateSavingsGoal(ctx, core.Money{Cents: 2000000}); err != nil {
		t.Fatalf("goal: %v", err)
	}
	if slot.saves != 3 {
		t.Fatalf("expected 3 slot writes, got %d", slot.saves)
	}

	// A fresh ledger rehydrates to a deep-equal aggregate.
	l2, err := New(ctx, slot)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if !reflect.DeepEqual(l.Data(), l2.Data()) {
		t.Fatalf("round-trip mismatch:\n%+v\n%+v", l.Data(), l2.Data())
	}
}

func TestFailedPersistRollsBackMutation(t *testing.T) {
	slot := &failingSlot{failAfter: 1}
	ctx := context.Background()
	l, err := New(ctx, slot)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := l.AddTransaction(ctx, expense("Coffee", "Food", 450)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	before := l.Data()

	if err := l.AddTransaction(ctx, expense("Lunch", "Food", 1200)); err == nil {
		t.Fatal("expected persist failure")
	}
	if !reflect.DeepEqual(l.Data(), before) {
		t.Fatalf("failed add left the aggregate mutated:\n%+v\n%+v", l.Data(), before)
	}

	if err := l.UpdateSavings(ctx, core.Money{Cents: 999}); err == nil {
		t.Fatal("expected persist failure")
	}
	if l.Data().CurrentSavings != before.CurrentSavings {
		t.Fatalf("failed savings update stuck: %+v", l.Data().CurrentSavings)
	}

	// A rehydrated ledger sees only the successful mutation.
	l2, err := New(ctx, &slot.memSlot)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if !reflect.DeepEqual(l2.Data(), before) {
		t.Fatalf("slot diverged from memory")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	slot := &memSlot{}
	ctx := context.Background()
	l, err := New(ctx, slot)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := l.AddTransaction(ctx, expense("Coffee", "Food", 450)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !reflect.DeepEqual(l.Data(), DefaultData()) {
		t.Fatalf("reset did not restore defaults")
	}
	if slot.blob != nil {
		t.Fatalf("reset did not clear the slot")
	}
	// A fresh ledger after reset starts from defaults again.
	l2, err := New(ctx, slot)
	if err != nil {
		t.Fatalf("new after reset: %v", err)
	}
	if !reflect.DeepEqual(l2.Data(), DefaultData()) {
		t.Fatalf("rehydrate after reset should use defaults")
	}
}

func TestAddTransactionAssignsIDAndIcon(t *testing.T) {
	l := emptyLedger(t, 0)
	if err := l.AddTransaction(context.Background(), expense("Cinema", "Entertainment", 1500)); err != nil {
		t.Fatalf("add: %v", err)
	}
	tx := l.Data().RecentTransactions[0]
	if tx.ID == "" {
		t.Fatalf("ID not assigned")
	}
	if tx.Icon != "🎬" {
		t.Fatalf("icon = %q", tx.Icon)
	}
}
