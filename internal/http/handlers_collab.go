package http

import (
	"net/http"
	"strings"
	"time"

	"wealthify/internal/api"
	"wealthify/internal/log"
)

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	const key = "portfolio"
	if overview, ok := s.portfolioCache.Get(key); ok {
		writeJSON(w, http.StatusOK, overview)
		return
	}

	v, err, _ := s.fetchGroup.Do(key, func() (any, error) {
		return s.svc.PortfolioOverview(r.Context())
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	overview := v.(api.PortfolioOverview)
	s.portfolioCache.Set(key, overview)
	writeJSON(w, http.StatusOK, overview)
}

// handleAddExpenses submits one month of categorized spending to the
// collaborator's prediction models. These rows never touch the ledger.
func (s *Server) handleAddExpenses(w http.ResponseWriter, r *http.Request) {
	var req expensesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}

	ctx := r.Context()
	userID, err := s.currentUserID(ctx)
	if err != nil {
		writeError(w, http.StatusUnauthorized, log.ErrorTypeAuth, "log in to record expenses")
		return
	}

	row, fields := req.toRow(userID)
	if fields != nil {
		writeValidationError(w, fields)
		return
	}
	if err := s.svc.AddExpenses(ctx, []api.ExpenseRow{row}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// handleListExpenses returns the user's recorded expense rows, filtered
// by ?month=YYYY-MM when present.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			writeValidationError(w, map[string]string{"month": "must be YYYY-MM"})
			return
		}
	}

	ctx := r.Context()
	userID, err := s.currentUserID(ctx)
	if err != nil {
		writeError(w, http.StatusUnauthorized, log.ErrorTypeAuth, "log in to view expenses")
		return
	}

	rows, err := s.svc.Expenses(ctx, userID, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.svc.Assets(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// handlePredict proxies the collaborator's prediction models. kind
// selects between next-month expense and savings estimates.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind != "expense" && kind != "savings" {
		writeValidationError(w, map[string]string{"kind": "must be expense or savings"})
		return
	}
	month := strings.TrimSpace(req.Month)
	if month == "" {
		month = time.Now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		writeValidationError(w, map[string]string{"month": "must be YYYY-MM"})
		return
	}

	ctx := r.Context()
	userID, err := s.currentUserID(ctx)
	if err != nil {
		writeError(w, http.StatusUnauthorized, log.ErrorTypeAuth, "log in to request predictions")
		return
	}

	payload := api.PredictionRequest{UserID: userID, Month: month}
	if income, err := req.Income.Float64(); err == nil {
		payload.Income = income
	}

	var prediction api.Prediction
	if kind == "expense" {
		prediction, err = s.svc.PredictExpense(ctx, payload)
	} else {
		prediction, err = s.svc.PredictSavings(ctx, payload)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}
