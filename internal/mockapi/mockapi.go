// Package mockapi is an in-memory collaborator used when no real
// backend is reachable. It mirrors the collaborator's behavior closely
// enough for local development: dashboard figures are derived from the
// transactions it has seen, predictions are moving averages.
package mockapi

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"wealthify/internal/api"
	"wealthify/internal/session"
)

type account struct {
	user        session.User
	savingsGoal float64
}

type Backend struct {
	mu           sync.Mutex
	nextID       int64
	accounts     map[string]*account // keyed by username
	transactions map[int64][]api.TransactionRecord
	expenses     map[int64][]api.ExpenseRecord
	assets       []api.Asset
	now          func() time.Time
}

var _ api.Service = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		nextID:       1,
		accounts:     make(map[string]*account),
		transactions: make(map[int64][]api.TransactionRecord),
		expenses:     make(map[int64][]api.ExpenseRecord),
		assets: []api.Asset{
			{ID: 1, Name: "Bitcoin", Symbol: "BTC", Quantity: 0.05, BuyPrice: 52000, Type: "crypto"},
			{ID: 2, Name: "Index Fund", Symbol: "VTI", Quantity: 12, BuyPrice: 240, Type: "stock"},
		},
		now: time.Now,
	}
}

// Login accepts any non-empty credentials, creating the account on
// first sight.
func (b *Backend) Login(_ context.Context, creds api.Credentials) (api.LoginResponse, error) {
	if creds.Username == "" || creds.Password == "" {
		return api.LoginResponse{}, api.ErrUnauthorized
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[creds.Username]
	if !ok {
		acct = b.newAccountLocked(creds.Username, creds.Username, displayName(creds.Username))
	}
	return b.loginResponseLocked(acct), nil
}

func (b *Backend) Register(_ context.Context, req api.RegisterRequest) (api.LoginResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return api.LoginResponse{}, &api.StatusError{Status: 400, Detail: "missing registration fields"}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[req.Username]; ok {
		return api.LoginResponse{}, &api.StatusError{Status: 400, Detail: "Username already exists"}
	}
	acct := b.newAccountLocked(req.Username, req.Email, req.Username)
	return b.loginResponseLocked(acct), nil
}

func (b *Backend) newAccountLocked(username, email, name string) *account {
	id := b.nextID
	b.nextID++
	acct := &account{
		user: session.User{
			ID:        fmt.Sprintf("%d", id),
			Email:     email,
			Name:      name,
			CreatedAt: b.now().Format(time.RFC3339),
		},
		savingsGoal: 10000,
	}
	b.accounts[username] = acct
	return acct
}

func (b *Backend) loginResponseLocked(acct *account) api.LoginResponse {
	return api.LoginResponse{
		Token: "mock-token-" + acct.user.ID,
		User:  acct.user,
	}
}

func (b *Backend) AddTransaction(_ context.Context, payload api.TransactionPayload) (api.TransactionRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	record := api.TransactionRecord{TransactionPayload: payload, ID: b.nextID}
	b.nextID++
	// Newest first, like the collaborator's created_at DESC ordering.
	b.transactions[payload.UserID] = append([]api.TransactionRecord{record}, b.transactions[payload.UserID]...)
	return record, nil
}

func (b *Backend) Transactions(_ context.Context, userID int64, limit int) ([]api.TransactionRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records := b.transactions[userID]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	out := make([]api.TransactionRecord, len(records))
	copy(out, records)
	return out, nil
}

func (b *Backend) Dashboard(_ context.Context, userID int64) (api.DashboardData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	currentMonth := b.now().Format("2006-01")
	lastMonth := b.now().AddDate(0, 0, -b.now().Day()).Format("2006-01")

	var summary api.FinancialSummary
	categoryTotals := make(map[string]float64)
	for _, tx := range b.transactions[userID] {
		inMonth := strings.HasPrefix(tx.Date, currentMonth)
		inLastMonth := strings.HasPrefix(tx.Date, lastMonth)
		switch tx.Type {
		case "income":
			summary.TotalBalance += tx.Amount
			if inMonth {
				summary.MonthlyIncome += tx.Amount
			}
			if inLastMonth {
				summary.LastMonthIncome += tx.Amount
			}
		case "expense":
			summary.TotalBalance -= tx.Amount
			if inMonth {
				summary.MonthlyExpenses += tx.Amount
				categoryTotals[tx.Category] += tx.Amount
			}
			if inLastMonth {
				summary.LastMonthExpenses += tx.Amount
			}
		}
	}
	summary.LastMonthBalance = summary.LastMonthIncome - summary.LastMonthExpenses
	summary.CurrentSavings = math.Max(0, summary.TotalBalance*0.2)
	summary.SavingsGoal = 10000
	for _, acct := range b.accounts {
		if acct.user.ID == fmt.Sprintf("%d", userID) {
			summary.SavingsGoal = acct.savingsGoal
		}
	}

	var total float64
	for _, amount := range categoryTotals {
		total += amount
	}
	categories := make([]api.SpendingCategory, 0, len(categoryTotals))
	for name, amount := range categoryTotals {
		var pct float64
		if total > 0 {
			pct = math.Round(amount/total*1000) / 10
		}
		categories = append(categories, api.SpendingCategory{Category: name, Amount: amount, Percentage: pct})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Amount > categories[j].Amount })

	recent := b.transactions[userID]
	if len(recent) > 5 {
		recent = recent[:5]
	}
	out := make([]api.TransactionRecord, len(recent))
	copy(out, recent)

	return api.DashboardData{
		Summary:            summary,
		RecentTransactions: out,
		SpendingCategories: categories,
	}, nil
}

func (b *Backend) Expenses(_ context.Context, userID int64, month string) ([]api.ExpenseRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []api.ExpenseRecord
	for _, row := range b.expenses[userID] {
		if month == "" || row.Month == month {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, &api.StatusError{Status: 404, Detail: "No expenses found"}
	}
	return out, nil
}

func (b *Backend) AddExpenses(_ context.Context, rows []api.ExpenseRow) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, row := range rows {
		record := api.ExpenseRecord{ExpenseRow: row, ID: b.nextID}
		b.nextID++
		b.expenses[row.UserID] = append(b.expenses[row.UserID], record)
	}
	return nil
}

// PredictExpense averages the user's last three expense rows. With no
// history it falls back to the demo figure.
func (b *Backend) PredictExpense(_ context.Context, req api.PredictionRequest) (api.Prediction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows := b.expenses[req.UserID]
	if len(rows) == 0 {
		return api.Prediction{Prediction: 3200, Month: req.Month}, nil
	}
	if len(rows) > 3 {
		rows = rows[len(rows)-3:]
	}
	var sum float64
	for _, row := range rows {
		sum += row.TotalExpense
	}
	return api.Prediction{Prediction: sum / float64(len(rows)), Month: req.Month}, nil
}

func (b *Backend) PredictSavings(ctx context.Context, req api.PredictionRequest) (api.Prediction, error) {
	expense, err := b.PredictExpense(ctx, req)
	if err != nil {
		return api.Prediction{}, err
	}
	savings := req.Income - expense.Prediction
	if req.Income <= 0 {
		savings = 800
	}
	return api.Prediction{Prediction: savings, Month: req.Month}, nil
}

func (b *Backend) UpdateSavingsGoal(_ context.Context, userID int64, newGoal float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := fmt.Sprintf("%d", userID)
	for _, acct := range b.accounts {
		if acct.user.ID == id {
			acct.savingsGoal = newGoal
			return nil
		}
	}
	return &api.StatusError{Status: 404, Detail: "User not found"}
}

func (b *Backend) Assets(_ context.Context) ([]api.Asset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]api.Asset, len(b.assets))
	copy(out, b.assets)
	return out, nil
}

// PortfolioOverview values every asset at its buy price: no live
// quotes in the mock, so gain/loss is always zero.
func (b *Backend) PortfolioOverview(ctx context.Context) (api.PortfolioOverview, error) {
	assets, err := b.Assets(ctx)
	if err != nil {
		return api.PortfolioOverview{}, err
	}
	var invested float64
	for _, asset := range assets {
		invested += asset.BuyPrice * asset.Quantity
	}
	return api.PortfolioOverview{
		TotalValue:    invested,
		InvestedTotal: invested,
		Assets:        assets,
	}, nil
}

func displayName(username string) string {
	if at := strings.IndexByte(username, '@'); at > 0 {
		return username[:at]
	}
	return username
}
