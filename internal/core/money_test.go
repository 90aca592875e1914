package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"156.78", 15678, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseNonNegativeCentsAllowsZero(t *testing.T) {
	got, err := ParseNonNegativeCents("0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	if _, err := ParseNonNegativeCents("-5"); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		part, total int64
		want        int
	}{
		{200, 400, 50},
		{200, 200, 100},
		{1, 3, 33},
		{2, 3, 67}, // half-up
		{0, 100, 0},
		{100, 0, 0}, // zero-total guard
	}
	for _, tc := range cases {
		got := PercentOf(Money{Cents: tc.part}, Money{Cents: tc.total})
		if got != tc.want {
			t.Fatalf("PercentOf(%d,%d) = %d, want %d", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 15678}).String(); s != "156.78" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: 5}).String(); s != "0.05" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: -250}).String(); s != "-2.50" {
		t.Fatalf("got %q", s)
	}
}

func TestFromFloat(t *testing.T) {
	if got := FromFloat(156.78); got.Cents != 15678 {
		t.Fatalf("got %d", got.Cents)
	}
	if got := FromFloat(0.1 + 0.2); got.Cents != 30 {
		t.Fatalf("got %d", got.Cents)
	}
}
