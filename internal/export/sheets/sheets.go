// Package sheets mirrors the CSV export into a Google spreadsheet. It
// is an optional target: the server only constructs a client when a
// spreadsheet id is configured.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"wealthify/internal/config"
	"wealthify/internal/core"
)

// Header matches the CSV export column order.
var header = []any{"Date", "Description", "Category", "Type", "Amount"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New builds a Sheets client from the configured service-account
// credentials (inline JSON wins over the file path).
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var credentials []byte
	switch {
	case cfg.GoogleCredentialsJSON != "":
		credentials = []byte(cfg.GoogleCredentialsJSON)
	case cfg.GoogleCredentialsFile != "":
		raw, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentials = raw
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

// AppendTransactions appends one row per transaction below the existing
// data, writing the header first when the sheet is still empty. Amounts
// are decimal strings, dates ISO, matching the CSV export byte for byte.
func (c *Client) AppendTransactions(ctx context.Context, transactions []core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:E", c.sheetName)
	existing, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	var rows [][]any
	if len(existing.Values) == 0 {
		rows = append(rows, header)
	}
	for _, tx := range transactions {
		rows = append(rows, []any{
			tx.Date.String(),
			tx.Description,
			tx.Category,
			string(tx.Type),
			tx.Amount.String(),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng,
		&gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported transactions to spreadsheet",
		"sheet", c.sheetName, "rows", len(transactions))
	return nil
}
