package api

import "wealthify/internal/session"

// Wire types for the backend collaborator. Field names follow the
// collaborator's snake_case contract; amounts cross this boundary as
// float64 and are converted to cents on the way in.

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type TransactionPayload struct {
	UserID      int64   `json:"user_id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type TransactionRecord struct {
	TransactionPayload
	ID int64 `json:"id"`
}

type FinancialSummary struct {
	TotalBalance      float64 `json:"total_balance"`
	MonthlyIncome     float64 `json:"monthly_income"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
	SavingsGoal       float64 `json:"savings_goal"`
	CurrentSavings    float64 `json:"current_savings"`
	LastMonthBalance  float64 `json:"last_month_balance"`
	LastMonthIncome   float64 `json:"last_month_income"`
	LastMonthExpenses float64 `json:"last_month_expenses"`
}

type SpendingCategory struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type DashboardData struct {
	Summary            FinancialSummary    `json:"summary"`
	RecentTransactions []TransactionRecord `json:"recent_transactions"`
	SpendingCategories []SpendingCategory  `json:"spending_categories"`
}

// ExpenseRow is one month of categorized spending, the collaborator's
// training row for its prediction models.
type ExpenseRow struct {
	UserID        int64   `json:"user_id"`
	Month         string  `json:"month"`
	Rent          float64 `json:"rent"`
	LoanRepayment float64 `json:"loan_repayment"`
	Insurance     float64 `json:"insurance"`
	Groceries     float64 `json:"groceries"`
	Transport     float64 `json:"transport"`
	EatingOut     float64 `json:"eating_out"`
	Entertainment float64 `json:"entertainment"`
	Utilities     float64 `json:"utilities"`
	Healthcare    float64 `json:"healthcare"`
	Education     float64 `json:"education"`
	Miscellaneous float64 `json:"miscellaneous"`
	TotalExpense  float64 `json:"total_expense"`
}

type ExpenseRecord struct {
	ExpenseRow
	ID int64 `json:"id"`
}

type PredictionRequest struct {
	UserID int64   `json:"user_id"`
	Month  string  `json:"month"`
	Income float64 `json:"income,omitempty"`
}

type Prediction struct {
	Prediction float64 `json:"prediction"`
	Month      string  `json:"month"`
}

type Asset struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	BuyPrice float64 `json:"buy_price"`
	BuyDate  string  `json:"buy_date,omitempty"`
	Type     string  `json:"type"`
}

type PortfolioOverview struct {
	TotalValue    float64 `json:"total_value"`
	InvestedTotal float64 `json:"invested_total"`
	GainLoss      float64 `json:"gain_loss"`
	PercentChange float64 `json:"percent_change"`
	Assets        []Asset `json:"assets"`
}
