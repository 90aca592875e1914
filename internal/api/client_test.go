package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSession struct {
	token   string
	cleared bool
}

func (f *fakeSession) Token(context.Context) (string, error) {
	if f.token == "" {
		return "", errors.New("no session")
	}
	return f.token, nil
}

func (f *fakeSession) Clear(context.Context) error {
	f.cleared = true
	f.token = ""
	return nil
}

func TestDashboardSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/dashboard/7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"summary": {"total_balance": 1000.5, "monthly_income": 200},
			"recent_transactions": [{"id": 1, "type": "expense", "description": "Coffee", "amount": 4.5, "category": "Food", "date": "2026-08-30", "user_id": 7}],
			"spending_categories": [{"category": "Food", "amount": 4.5, "percentage": 100}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeSession{token: "tok-abc"})
	data, err := client.Dashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if data.Summary.TotalBalance != 1000.5 {
		t.Fatalf("total balance = %v", data.Summary.TotalBalance)
	}
	if len(data.RecentTransactions) != 1 || data.RecentTransactions[0].Description != "Coffee" {
		t.Fatalf("recent transactions = %+v", data.RecentTransactions)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := &fakeSession{token: "stale"}
	client := NewClient(srv.URL, sess)
	_, err := client.Transactions(context.Background(), 7, 10)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if !sess.cleared {
		t.Fatal("401 must clear the session slots")
	}
}

func TestStatusErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "No expenses found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeSession{token: "tok"})
	_, err := client.Expenses(context.Background(), 7, "2026-08")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("want StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusNotFound || statusErr.Detail != "No expenses found" {
		t.Fatalf("status error = %+v", statusErr)
	}
}

func TestTransportErrorOnUnreachableHost(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", &fakeSession{token: "tok"})
	_, err := client.PortfolioOverview(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("want TransportError, got %v", err)
	}
}

func TestLoginPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "demo" || r.PostFormValue("password") != "secret" {
			t.Errorf("form = %v", r.PostForm)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token": "tok-new", "user": {"id": "7", "email": "demo@example.com", "name": "Demo"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeSession{})
	resp, err := client.Login(context.Background(), Credentials{Username: "demo", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token != "tok-new" || resp.User.ID != "7" {
		t.Fatalf("login response = %+v", resp)
	}
}
