// Package api is the typed client for the backend collaborator. It
// injects the stored bearer token on every authenticated call, never
// retries on its own, and clears the session when the collaborator
// answers 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service is the collaborator surface the handlers depend on. The real
// client and the in-memory mock both implement it.
type Service interface {
	Login(ctx context.Context, creds Credentials) (LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
	Dashboard(ctx context.Context, userID int64) (DashboardData, error)
	Transactions(ctx context.Context, userID int64, limit int) ([]TransactionRecord, error)
	AddTransaction(ctx context.Context, payload TransactionPayload) (TransactionRecord, error)
	Expenses(ctx context.Context, userID int64, month string) ([]ExpenseRecord, error)
	AddExpenses(ctx context.Context, rows []ExpenseRow) error
	PredictExpense(ctx context.Context, req PredictionRequest) (Prediction, error)
	PredictSavings(ctx context.Context, req PredictionRequest) (Prediction, error)
	UpdateSavingsGoal(ctx context.Context, userID int64, newGoal float64) error
	Assets(ctx context.Context) ([]Asset, error)
	PortfolioOverview(ctx context.Context) (PortfolioOverview, error)
}

// SessionStore is the slice of the session manager the client needs.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL string
	http    *http.Client
	session SessionStore
}

func NewClient(baseURL string, session SessionStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

// Login posts form credentials, matching the collaborator's
// OAuth2-style login endpoint.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResponse{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out LoginResponse
	if err := c.send(req, &out, false); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, reg RegisterRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/register", reg, &out, false)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context, userID int64) (DashboardData, error) {
	var out DashboardData
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/dashboard/%d", userID), nil, &out, true)
	return out, err
}

func (c *Client) Transactions(ctx context.Context, userID int64, limit int) ([]TransactionRecord, error) {
	path := fmt.Sprintf("/transactions/%d", userID)
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var out []TransactionRecord
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out, true)
	return out, err
}

func (c *Client) AddTransaction(ctx context.Context, payload TransactionPayload) (TransactionRecord, error) {
	var out TransactionRecord
	err := c.doJSON(ctx, http.MethodPost, "/transactions", payload, &out, true)
	return out, err
}

func (c *Client) Expenses(ctx context.Context, userID int64, month string) ([]ExpenseRecord, error) {
	path := fmt.Sprintf("/expenses/%d", userID)
	if month != "" {
		path += "?month=" + url.QueryEscape(month)
	}
	var out []ExpenseRecord
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out, true)
	return out, err
}

func (c *Client) AddExpenses(ctx context.Context, rows []ExpenseRow) error {
	body := struct {
		Expenses []ExpenseRow `json:"expenses"`
	}{Expenses: rows}
	return c.doJSON(ctx, http.MethodPost, "/expenses", body, nil, true)
}

func (c *Client) PredictExpense(ctx context.Context, req PredictionRequest) (Prediction, error) {
	var out Prediction
	err := c.doJSON(ctx, http.MethodPost, "/predict-expense", req, &out, true)
	return out, err
}

func (c *Client) PredictSavings(ctx context.Context, req PredictionRequest) (Prediction, error) {
	var out Prediction
	err := c.doJSON(ctx, http.MethodPost, "/predict/savings", req, &out, true)
	return out, err
}

func (c *Client) UpdateSavingsGoal(ctx context.Context, userID int64, newGoal float64) error {
	body := struct {
		NewGoal float64 `json:"new_goal"`
	}{NewGoal: newGoal}
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/users/%d/savings-goal", userID), body, nil, true)
}

func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	var out []Asset
	err := c.doJSON(ctx, http.MethodGet, "/assets", nil, &out, true)
	return out, err
}

func (c *Client) PortfolioOverview(ctx context.Context) (PortfolioOverview, error) {
	var out PortfolioOverview
	err := c.doJSON(ctx, http.MethodGet, "/portfolio/overview", nil, &out, true)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out, authed)
}

func (c *Client) send(req *http.Request, out any, authed bool) error {
	ctx := req.Context()
	if authed {
		token, err := c.session.Token(ctx)
		if err != nil {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Global side effect: a 401 anywhere invalidates the session.
		_ = c.session.Clear(ctx)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// readDetail pulls the collaborator's {"detail": "..."} message when
// present, otherwise the raw body.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return strings.TrimSpace(string(raw))
}
