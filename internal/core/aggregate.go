package core

// CategoryBreakdown is one category's accumulated expense amount and its
// rounded share of total expenses.
type CategoryBreakdown struct {
	Category   string `json:"category"`
	Amount     Money  `json:"amount"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
}

// AccountSnapshot holds the headline figures shown on the dashboard.
type AccountSnapshot struct {
	TotalBalance    Money `json:"totalBalance"`
	MonthlyIncome   Money `json:"monthlyIncome"`
	MonthlyExpenses Money `json:"monthlyExpenses"`
	SavingsGoal     Money `json:"savingsGoal"`
	CurrentSavings  Money `json:"currentSavings"`
}

// FinancialData is the full in-memory aggregate: snapshot figures, the
// bounded recent-transaction window, and the per-category spending
// breakdown. It is persisted wholesale after every mutation.
type FinancialData struct {
	AccountSnapshot
	RecentTransactions []Transaction       `json:"recentTransactions"`
	SpendingCategories []CategoryBreakdown `json:"spendingCategories"`
}

// TotalSpending sums the breakdown amounts.
func (d FinancialData) TotalSpending() Money {
	var total int64
	for _, c := range d.SpendingCategories {
		total += c.Amount.Cents
	}
	return Money{Cents: total}
}

// TopCategory returns the breakdown entry with the largest amount, or
// false when the breakdown is empty.
func (d FinancialData) TopCategory() (CategoryBreakdown, bool) {
	if len(d.SpendingCategories) == 0 {
		return CategoryBreakdown{}, false
	}
	top := d.SpendingCategories[0]
	for _, c := range d.SpendingCategories[1:] {
		if c.Amount.Cents > top.Amount.Cents {
			top = c
		}
	}
	return top, true
}

// Clone returns a deep copy so callers can hand the aggregate out
// without exposing internal slices to mutation.
func (d FinancialData) Clone() FinancialData {
	out := d
	out.RecentTransactions = append([]Transaction(nil), d.RecentTransactions...)
	out.SpendingCategories = append([]CategoryBreakdown(nil), d.SpendingCategories...)
	return out
}

// RecomputePercentages refreshes every entry's share of the breakdown
// total. Each percentage rounds independently, so the set may not sum
// to exactly 100. An empty or zero-total breakdown leaves all shares 0.
func RecomputePercentages(categories []CategoryBreakdown) {
	var total int64
	for _, c := range categories {
		total += c.Amount.Cents
	}
	for i := range categories {
		categories[i].Percentage = PercentOf(categories[i].Amount, Money{Cents: total})
	}
}
