package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"wealthify/internal/api"
	"wealthify/internal/core"
	"wealthify/internal/insights"
	"wealthify/internal/log"
)

// defaultHistoryLimit bounds collaborator history fetches when the
// caller does not pass an explicit limit.
const defaultHistoryLimit = 50

// handleDashboard serves the ledger aggregate. With an active session
// the collaborator's view is fetched first and, when it wins the
// sequence check, replaces the local aggregate before the response is
// built. Transport failures fall back to the local view untouched.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.session.Active(ctx) {
		if err := s.refreshFromBackend(ctx); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				// Session was cleared by the 401 side effect; the local
				// aggregate still answers.
				slog.WarnContext(ctx, "Dashboard refresh rejected, session cleared")
			} else {
				slog.WarnContext(ctx, "Dashboard refresh failed, serving local aggregate", "error", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, s.ledger.Data())
}

// refreshFromBackend pulls the collaborator dashboard through the cache
// and singleflight. Concurrent requests share one fetch; when a newer
// request has started by the time a fetch lands, the stale result is
// discarded instead of overwriting the aggregate.
func (s *Server) refreshFromBackend(ctx context.Context) error {
	id, err := s.session.UserID(ctx)
	if err != nil {
		return err
	}
	userID, _ := s.currentUserID(ctx)

	key := "dashboard:" + id
	if _, ok := s.dashCache.Get(key); ok {
		// Fresh enough; the aggregate was replaced when this entry was
		// filled and every local mutation since would have dropped it.
		return nil
	}

	seq := s.dashSeq.Add(1)
	v, err, _ := s.fetchGroup.Do(key, func() (any, error) {
		return s.svc.Dashboard(ctx, userID)
	})
	if err != nil {
		return err
	}
	if s.dashSeq.Load() != seq {
		return nil
	}
	dash := v.(api.DashboardData)
	s.dashCache.Set(key, dash)
	return s.ledger.Replace(ctx, aggregateFromDashboard(dash))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.TrimSpace(query.Get("q"))
	category := strings.TrimSpace(query.Get("category"))
	txType := strings.ToLower(strings.TrimSpace(query.Get("type")))

	if txType != "" && !core.TransactionType(txType).IsValid() {
		writeValidationError(w, map[string]string{"type": "must be income or expense"})
		return
	}
	limit := defaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeValidationError(w, map[string]string{"limit": "must be an integer between 1 and 500"})
			return
		}
		limit = n
	}

	all := s.transactionHistory(r.Context(), limit)
	filtered := make([]core.Transaction, 0, len(all))
	for _, tx := range all {
		if !tx.Matches(q) {
			continue
		}
		if category != "" && !strings.EqualFold(tx.Category, category) {
			continue
		}
		if txType != "" && string(tx.Type) != txType {
			continue
		}
		filtered = append(filtered, tx)
	}
	writeJSON(w, http.StatusOK, filtered)
}

// transactionHistory prefers the collaborator's full history when a
// session is active; the local window only holds the 10 most recent
// entries. Any fetch failure falls back to the local window.
func (s *Server) transactionHistory(ctx context.Context, limit int) []core.Transaction {
	if s.session.Active(ctx) {
		if userID, err := s.currentUserID(ctx); err == nil {
			records, err := s.svc.Transactions(ctx, userID, limit)
			if err == nil {
				out := make([]core.Transaction, 0, len(records))
				for _, rec := range records {
					out = append(out, transactionFromRecord(rec))
				}
				return out
			}
			slog.WarnContext(ctx, "History fetch failed, serving local window", "error", err)
		}
	}
	local := s.ledger.Data().RecentTransactions
	if limit < len(local) {
		local = local[:limit]
	}
	return local
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}
	tx, fields := req.toTransaction()
	if fields != nil {
		writeValidationError(w, fields)
		return
	}

	ctx := r.Context()
	if err := s.ledger.AddTransaction(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to apply transaction", "error", err)
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not persist transaction")
		return
	}
	s.dashCache.Flush()

	// The local aggregate is authoritative; forwarding to the
	// collaborator is best effort and never rolls the ledger back.
	synced := false
	if s.session.Active(ctx) {
		if err := s.forwardTransaction(ctx, tx); err != nil {
			slog.WarnContext(ctx, "Transaction not forwarded to backend", "error", err)
		} else {
			synced = true
		}
	}

	added := s.ledger.Data().RecentTransactions[0]
	writeJSON(w, http.StatusCreated, struct {
		Transaction core.Transaction `json:"transaction"`
		Synced      bool             `json:"synced"`
	}{Transaction: added, Synced: synced})
}

func (s *Server) forwardTransaction(ctx context.Context, tx core.Transaction) error {
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return err
	}
	_, err = s.svc.AddTransaction(ctx, api.TransactionPayload{
		UserID:      userID,
		Type:        string(tx.Type),
		Description: tx.Description,
		Amount:      tx.Amount.Float(),
		Category:    tx.Category,
		Date:        tx.Date.String(),
	})
	return err
}

func (s *Server) handleUpdateSavings(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}
	amount, fields := req.toMoney()
	if fields != nil {
		writeValidationError(w, fields)
		return
	}
	if err := s.ledger.UpdateSavings(r.Context(), amount); err != nil {
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not persist savings")
		return
	}
	s.dashCache.Flush()
	writeJSON(w, http.StatusOK, map[string]core.Money{"currentSavings": amount})
}

func (s *Server) handleUpdateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}
	amount, fields := req.toMoney()
	if fields != nil {
		writeValidationError(w, fields)
		return
	}

	ctx := r.Context()
	if err := s.ledger.UpdateSavingsGoal(ctx, amount); err != nil {
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not persist savings goal")
		return
	}
	s.dashCache.Flush()

	if s.session.Active(ctx) {
		if userID, err := s.currentUserID(ctx); err == nil {
			if err := s.svc.UpdateSavingsGoal(ctx, userID, amount.Float()); err != nil {
				slog.WarnContext(ctx, "Savings goal not forwarded to backend", "error", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]core.Money{"savingsGoal": amount})
}

// handleReset restores the default aggregate and clears the slot.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not reset data")
		return
	}
	s.flushCaches()
	writeJSON(w, http.StatusOK, s.ledger.Data())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, insights.Analyze(s.ledger.Data()))
}
