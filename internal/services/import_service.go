// Package services orchestrates multi-step operations that span the
// ledger, the queue, and the collaborator.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"wealthify/internal/amqp"
	"wealthify/internal/csvio"
	"wealthify/internal/ledger"
)

// RowPublisher hands imported rows to the relay queue.
type RowPublisher interface {
	PublishImportedRow(ctx context.Context, msg *amqp.ImportedRowMessage) error
}

// ImportService parses a CSV upload, applies every row to the local
// ledger, and hands the rows to the relay queue for the collaborator.
type ImportService struct {
	ledger    *ledger.Ledger
	publisher RowPublisher
}

// NewImportService creates the service. publisher may be nil when no
// broker is configured; rows then stay local only.
func NewImportService(l *ledger.Ledger, publisher RowPublisher) *ImportService {
	return &ImportService{ledger: l, publisher: publisher}
}

type ImportResult struct {
	ImportID string `json:"importId"`
	Imported int    `json:"imported"`
	Queued   int    `json:"queued"`
}

// Import runs the whole pipeline. Parsing is all-or-nothing: a bad row
// anywhere means nothing reaches the ledger. Queue publishes are best
// effort and never fail the import.
func (s *ImportService) Import(ctx context.Context, r io.Reader, userID int64) (ImportResult, error) {
	transactions, err := csvio.Import(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse csv: %w", err)
	}

	result := ImportResult{ImportID: uuid.NewString()}
	for _, tx := range transactions {
		if err := s.ledger.AddTransaction(ctx, tx); err != nil {
			return result, fmt.Errorf("apply imported transaction: %w", err)
		}
		result.Imported++

		if s.publisher == nil {
			continue
		}
		msg := amqp.NewImportedRowMessage(result.ImportID, userID, tx)
		if err := s.publisher.PublishImportedRow(ctx, msg); err != nil {
			// Local state is already correct; the relay can be retried.
			slog.ErrorContext(ctx, "Failed to queue imported row",
				"import_id", result.ImportID, "error", err)
			continue
		}
		result.Queued++
	}

	slog.InfoContext(ctx, "CSV import finished",
		"import_id", result.ImportID,
		"imported", result.Imported,
		"queued", result.Queued)
	return result, nil
}
