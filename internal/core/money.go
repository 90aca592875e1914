// Package core provides money parsing and handling utilities.
//
// Amounts are stored as integer cents. Transaction amounts are always
// positive magnitudes; the direction of a movement is carried by the
// transaction type, never by the sign of the stored value.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in integer cents.
type Money struct {
	Cents int64 `json:"cents"`
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and
// comma (12,34) separators. The result must be strictly positive; use
// ParseNonNegativeCents for fields that may legitimately be zero.
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseNonNegativeCents is ParseDecimalToCents but permits zero, for
// savings and goal fields that can be reset to nothing.
func ParseNonNegativeCents(s string) (int64, error) {
	return parseCents(s)
}

func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only unsigned magnitudes allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// FromFloat converts a collaborator-supplied float amount to cents with
// half-up rounding. Used only at the REST boundary; everything internal
// stays in cents.
func FromFloat(amount float64) Money {
	if amount < 0 {
		amount = -amount
	}
	return Money{Cents: int64(amount*100 + 0.5)}
}

// Float returns the decimal value for collaborator payloads and display.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as a plain decimal, e.g. "156.78".
func (m Money) String() string {
	neg := m.Cents < 0
	c := m.Cents
	if neg {
		c = -c
	}
	s := strconv.FormatInt(c/100, 10) + "." + twoDigits(c%100)
	if neg {
		return "-" + s
	}
	return s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// Validate rejects non-positive amounts.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// PercentOf returns round(part/total*100) as an integer share. A zero or
// negative total yields 0 rather than dividing by zero.
func PercentOf(part, total Money) int {
	if total.Cents <= 0 || part.Cents <= 0 {
		return 0
	}
	return int((part.Cents*100 + total.Cents/2) / total.Cents)
}
