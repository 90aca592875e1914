package core

import (
	"encoding/json"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "tx-1",
		Type:        Expense,
		Description: "Grocery Shopping",
		Amount:      Money{Cents: 15678},
		Date:        NewDate(2024, 1, 17),
		Category:    "Food",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Description: "a", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1), Category: "c"},
		{Type: Expense, Description: "", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1), Category: "c"},
		{Type: Expense, Description: "a", Amount: Money{Cents: 0}, Date: NewDate(2024, 1, 1), Category: "c"},
		{Type: Expense, Description: "a", Amount: Money{Cents: 1}, Date: Date{}, Category: "c"},
		{Type: Expense, Description: "a", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1), Category: " "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionMatches(t *testing.T) {
	tx := Transaction{Description: "Netflix Subscription", Category: "Entertainment"}
	cases := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"netflix", true},
		{"ENTERTAIN", true},
		{"grocery", false},
	}
	for _, tc := range cases {
		if got := tx.Matches(tc.q); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 1, 17)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-17"` {
		t.Fatalf("got %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestStyleForIsTotal(t *testing.T) {
	if s := StyleFor("Food"); s.Icon != "🍔" || s.Color != "bg-blue-500" {
		t.Fatalf("unexpected style %+v", s)
	}
	if s := StyleFor("Llama Grooming"); s != DefaultStyle {
		t.Fatalf("unknown category should map to default, got %+v", s)
	}
}
