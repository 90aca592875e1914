// Package csvio reads and writes the transaction interchange format.
// The column set is fixed; rows are matched to columns by header name,
// never by position alone. encoding/csv does the quoting, so commas
// and quotes in descriptions survive a round trip.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"wealthify/internal/core"
)

// Header is the canonical column order for exports.
var Header = []string{"Date", "Description", "Category", "Type", "Amount"}

var ErrEmptyFile = errors.New("csv file is empty")

// MissingColumnError reports a required header the file does not have.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("csv header is missing column %q", e.Column)
}

// RowError carries the 1-based line of the offending record.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("csv row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Export writes the transactions with the fixed header. Amounts are
// decimal strings, dates ISO.
func Export(w io.Writer, transactions []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range transactions {
		record := []string{
			tx.Date.String(),
			tx.Description,
			tx.Category,
			string(tx.Type),
			tx.Amount.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import parses the whole file and returns the transactions in file
// order. The first bad row aborts the import: a partial batch must
// never reach the ledger.
func Import(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, column := range Header {
		if _, ok := index[column]; !ok {
			return nil, &MissingColumnError{Column: column}
		}
	}

	var transactions []core.Transaction
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		tx, err := parseRow(record, index)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func parseRow(record []string, index map[string]int) (core.Transaction, error) {
	field := func(column string) string {
		return strings.TrimSpace(record[index[column]])
	}

	date, err := core.ParseDate(field("Date"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", field("Date"), err)
	}
	cents, err := core.ParseDecimalToCents(field("Amount"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", field("Amount"), err)
	}

	tx := core.Transaction{
		Type:        core.TransactionType(strings.ToLower(field("Type"))),
		Description: field("Description"),
		Category:    field("Category"),
		Amount:      core.Money{Cents: cents},
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}
