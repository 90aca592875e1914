package ledger

import "wealthify/internal/core"

// DefaultData seeds a fresh aggregate with demo figures so the
// dashboard is populated before the first real transaction arrives.
func DefaultData() core.FinancialData {
	return core.FinancialData{
		AccountSnapshot: core.AccountSnapshot{
			TotalBalance:    core.Money{Cents: 2465080},
			MonthlyIncome:   core.Money{Cents: 520000},
			MonthlyExpenses: core.Money{Cents: 345000},
			SavingsGoal:     core.Money{Cents: 1000000},
			CurrentSavings:  core.Money{Cents: 650000},
		},
		RecentTransactions: []core.Transaction{
			{
				ID:          "seed-1",
				Type:        core.Expense,
				Description: "Grocery Shopping",
				Amount:      core.Money{Cents: 15678},
				Date:        core.NewDate(2024, 1, 17),
				Category:    "Shopping",
				Icon:        "🛒",
			},
			{
				ID:          "seed-2",
				Type:        core.Income,
				Description: "Salary Deposit",
				Amount:      core.Money{Cents: 260000},
				Date:        core.NewDate(2024, 1, 15),
				Category:    "Salary",
				Icon:        "💰",
			},
			{
				ID:          "seed-3",
				Type:        core.Expense,
				Description: "Netflix Subscription",
				Amount:      core.Money{Cents: 1599},
				Date:        core.NewDate(2024, 1, 14),
				Category:    "Entertainment",
				Icon:        "🎬",
			},
			{
				ID:          "seed-4",
				Type:        core.Expense,
				Description: "Electric Bill",
				Amount:      core.Money{Cents: 8950},
				Date:        core.NewDate(2024, 1, 13),
				Category:    "Utilities",
				Icon:        "⚡",
			},
		},
		SpendingCategories: []core.CategoryBreakdown{
			seedCategory("Housing", 120000, 35),
			seedCategory("Food", 60000, 17),
			seedCategory("Transportation", 40000, 12),
			seedCategory("Utilities", 35000, 10),
			seedCategory("Entertainment", 30000, 9),
		},
	}
}

func seedCategory(name string, cents int64, percentage int) core.CategoryBreakdown {
	style := core.StyleFor(name)
	return core.CategoryBreakdown{
		Category:   name,
		Amount:     core.Money{Cents: cents},
		Percentage: percentage,
		Color:      style.Color,
		Icon:       style.Icon,
	}
}
