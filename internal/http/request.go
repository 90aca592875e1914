package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"wealthify/internal/api"
	"wealthify/internal/core"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("malformed request body")

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return errBadBody
	}
	return nil
}

// transactionRequest is the JSON surface for creating a transaction.
// Amount is a json.Number so both "12.34" and 12.34 are accepted, and
// the decimal string goes through the cents parser without a float
// detour.
type transactionRequest struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// toTransaction validates field by field and collects every problem, so
// the client can mark all offending inputs at once.
func (req transactionRequest) toTransaction() (core.Transaction, map[string]string) {
	fields := make(map[string]string)

	txType := core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !txType.IsValid() {
		fields["type"] = "must be income or expense"
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		fields["description"] = "cannot be empty"
	} else if len(description) > 200 {
		fields["description"] = "too long (max 200 characters)"
	}

	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		fields["amount"] = "must be a positive decimal amount"
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		fields["category"] = "cannot be empty"
	}

	date := core.Today()
	if strings.TrimSpace(req.Date) != "" {
		date, err = core.ParseDate(strings.TrimSpace(req.Date))
		if err != nil {
			fields["date"] = "must be YYYY-MM-DD"
		}
	}

	if len(fields) > 0 {
		return core.Transaction{}, fields
	}
	return core.Transaction{
		Type:        txType,
		Description: description,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    category,
	}, nil
}

// amountRequest covers the savings and savings-goal updates, which
// accept zero to let the user clear the value.
type amountRequest struct {
	Amount json.Number `json:"amount"`
}

func (req amountRequest) toMoney() (core.Money, map[string]string) {
	cents, err := core.ParseNonNegativeCents(req.Amount.String())
	if err != nil {
		return core.Money{}, map[string]string{"amount": "must be a non-negative decimal amount"}
	}
	return core.Money{Cents: cents}, nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req credentialsRequest) validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "cannot be empty"
	}
	if req.Password == "" {
		fields["password"] = "cannot be empty"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req registerRequest) validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "cannot be empty"
	}
	if !strings.Contains(req.Email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

type predictionRequest struct {
	Kind   string      `json:"kind"`
	Month  string      `json:"month"`
	Income json.Number `json:"income"`
}

// expensesRequest is one month of categorized spending, the row the
// collaborator trains its prediction models on. Amounts are float64
// because they never enter the ledger; they cross straight to the
// collaborator boundary.
type expensesRequest struct {
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
}

func (req expensesRequest) toRow(userID int64) (api.ExpenseRow, map[string]string) {
	fields := make(map[string]string)

	month := strings.TrimSpace(req.Month)
	if _, err := time.Parse("2006-01", month); err != nil {
		fields["month"] = "must be YYYY-MM"
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"rent", req.Rent},
		{"loan_repayment", req.LoanRepayment},
		{"insurance", req.Insurance},
		{"groceries", req.Groceries},
		{"transport", req.Transport},
		{"eating_out", req.EatingOut},
		{"entertainment", req.Entertainment},
		{"utilities", req.Utilities},
		{"healthcare", req.Healthcare},
		{"education", req.Education},
		{"miscellaneous", req.Miscellaneous},
	}
	var total float64
	for _, a := range amounts {
		if a.value < 0 {
			fields[a.name] = "cannot be negative"
		}
		total += a.value
	}
	if len(fields) > 0 {
		return api.ExpenseRow{}, fields
	}

	return api.ExpenseRow{
		UserID:        userID,
		Month:         month,
		Rent:          req.Rent,
		LoanRepayment: req.LoanRepayment,
		Insurance:     req.Insurance,
		Groceries:     req.Groceries,
		Transport:     req.Transport,
		EatingOut:     req.EatingOut,
		Entertainment: req.Entertainment,
		Utilities:     req.Utilities,
		Healthcare:    req.Healthcare,
		Education:     req.Education,
		Miscellaneous: req.Miscellaneous,
		TotalExpense:  total,
	}, nil
}
