// Package insights derives the insights screen from the local ledger
// aggregate: a headline summary, threshold-based suggestions, and
// simple trend detection over the recent transaction window.
package insights

import (
	"fmt"

	"wealthify/internal/core"
)

type Summary struct {
	TotalSpend  core.Money `json:"totalSpend"`
	TopCategory string     `json:"topCategory"`
	SavingsRate int        `json:"savingsRate"`
}

type Suggestion struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Trend kinds.
const (
	TrendRecurring = "Recurring"
	TrendSpike     = "Spike"
)

type Trend struct {
	Kind        string     `json:"kind"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
}

type Report struct {
	Summary     Summary      `json:"summary"`
	Suggestions []Suggestion `json:"suggestions"`
	Trends      []Trend      `json:"trends"`
}

// Analyze builds the full report. It is a pure function of the
// aggregate, so callers can recompute it after every mutation.
func Analyze(data core.FinancialData) Report {
	return Report{
		Summary:     summarize(data),
		Suggestions: suggest(data),
		Trends:      detectTrends(data.RecentTransactions),
	}
}

func summarize(data core.FinancialData) Summary {
	s := Summary{
		TotalSpend:  data.MonthlyExpenses,
		TopCategory: "N/A",
	}
	if top, ok := data.TopCategory(); ok {
		s.TopCategory = top.Category
	}
	if data.MonthlyIncome.Cents > 0 {
		s.SavingsRate = core.PercentOf(data.CurrentSavings, data.MonthlyIncome)
	}
	return s
}

func suggest(data core.FinancialData) []Suggestion {
	var out []Suggestion

	if data.MonthlyExpenses.Cents*10 > data.MonthlyIncome.Cents*8 {
		out = append(out, Suggestion{
			Type:    "SPENDING_HIGH",
			Title:   "Expenses Running High",
			Message: "Your expenses are high. Consider reducing non-essential spending.",
		})
	} else {
		out = append(out, Suggestion{
			Type:    "SPENDING_OK",
			Title:   "Spending Under Control",
			Message: "Great job keeping expenses under control!",
		})
	}

	if data.CurrentSavings.Cents*2 < data.SavingsGoal.Cents {
		out = append(out, Suggestion{
			Type:    "SAVINGS_BEHIND",
			Title:   "Boost Your Savings",
			Message: "Try to increase your savings rate to reach your goal faster.",
		})
	} else {
		out = append(out, Suggestion{
			Type:    "SAVINGS_ON_TRACK",
			Title:   "Savings On Track",
			Message: "You're on track with your savings goal!",
		})
	}

	if top, ok := data.TopCategory(); ok && top.Percentage > 40 {
		out = append(out, Suggestion{
			Type:    "CATEGORY_HEAVY",
			Title:   "One Category Dominates",
			Message: fmt.Sprintf("Your %s spending is high. Consider budgeting for this category.", top.Category),
		})
		switch top.Category {
		case "Food":
			out = append(out, Suggestion{
				Type:    "CATEGORY_TIP",
				Title:   "Food Costs",
				Message: "Try meal prepping to save on food costs.",
			})
		case "Utilities":
			out = append(out, Suggestion{
				Type:    "CATEGORY_TIP",
				Title:   "Utility Bills",
				Message: "Switch to a cheaper mobile plan.",
			})
		}
	}

	return out
}

// detectTrends scans the recent window. A charge with the same
// description and amount seen more than once is recurring; an expense
// at least twice the window's average expense is a spike.
func detectTrends(transactions []core.Transaction) []Trend {
	var trends []Trend

	type chargeKey struct {
		description string
		cents       int64
	}
	seen := make(map[chargeKey]int)
	flagged := make(map[chargeKey]bool)

	var expenseTotal int64
	var expenseCount int64
	for _, tx := range transactions {
		if tx.Type != core.Expense {
			continue
		}
		expenseTotal += tx.Amount.Cents
		expenseCount++
		key := chargeKey{description: tx.Description, cents: tx.Amount.Cents}
		seen[key]++
		if seen[key] > 1 && !flagged[key] {
			flagged[key] = true
			trends = append(trends, Trend{
				Kind:        TrendRecurring,
				Description: tx.Description,
				Amount:      tx.Amount,
			})
		}
	}

	if expenseCount < 2 {
		return trends
	}
	average := expenseTotal / expenseCount
	for _, tx := range transactions {
		if tx.Type != core.Expense {
			continue
		}
		if tx.Amount.Cents >= 2*average {
			trends = append(trends, Trend{
				Kind:        TrendSpike,
				Description: tx.Description,
				Amount:      tx.Amount,
			})
		}
	}
	return trends
}
