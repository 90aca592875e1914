package http

import (
	"math"
	"strconv"

	"wealthify/internal/api"
	"wealthify/internal/core"
)

// aggregateFromDashboard converts the collaborator's float-based
// dashboard view into the local cents-based aggregate. Applied via
// ledger.Replace when a remote fetch wins.
func aggregateFromDashboard(d api.DashboardData) core.FinancialData {
	out := core.FinancialData{
		AccountSnapshot: core.AccountSnapshot{
			TotalBalance:    core.FromFloat(d.Summary.TotalBalance),
			MonthlyIncome:   core.FromFloat(d.Summary.MonthlyIncome),
			MonthlyExpenses: core.FromFloat(d.Summary.MonthlyExpenses),
			SavingsGoal:     core.FromFloat(d.Summary.SavingsGoal),
			CurrentSavings:  core.FromFloat(d.Summary.CurrentSavings),
		},
	}
	for _, rec := range d.RecentTransactions {
		out.RecentTransactions = append(out.RecentTransactions, transactionFromRecord(rec))
	}
	for _, cat := range d.SpendingCategories {
		style := core.StyleFor(cat.Category)
		out.SpendingCategories = append(out.SpendingCategories, core.CategoryBreakdown{
			Category:   cat.Category,
			Amount:     core.FromFloat(cat.Amount),
			Percentage: int(math.Round(cat.Percentage)),
			Color:      style.Color,
			Icon:       style.Icon,
		})
	}
	return out
}

func transactionFromRecord(rec api.TransactionRecord) core.Transaction {
	date, err := core.ParseDate(rec.Date)
	if err != nil {
		date = core.Today()
	}
	return core.Transaction{
		ID:          strconv.FormatInt(rec.ID, 10),
		Type:        core.TransactionType(rec.Type),
		Description: rec.Description,
		Amount:      core.FromFloat(rec.Amount),
		Date:        date,
		Category:    rec.Category,
		Icon:        core.StyleFor(rec.Category).Icon,
	}
}
