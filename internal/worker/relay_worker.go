// Package worker relays CSV-imported transactions to the backend
// collaborator. Messages arrive from the import queue; a failed relay
// is returned to the queue for retry.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"wealthify/internal/amqp"
	"wealthify/internal/api"
)

// TransactionSink is the slice of the collaborator the relay needs.
type TransactionSink interface {
	AddTransaction(ctx context.Context, payload api.TransactionPayload) (api.TransactionRecord, error)
}

type RelayWorker struct {
	sink TransactionSink
}

func NewRelayWorker(sink TransactionSink) *RelayWorker {
	return &RelayWorker{sink: sink}
}

// HandleImportedRow pushes one imported transaction to the
// collaborator. Transport failures are retriable and bubble up so the
// delivery gets requeued; rejected payloads are dropped after logging,
// retrying them would loop forever.
func (w *RelayWorker) HandleImportedRow(ctx context.Context, msg *amqp.ImportedRowMessage) error {
	payload := toPayload(msg)

	record, err := w.sink.AddTransaction(ctx, payload)
	if err != nil {
		var transportErr *api.TransportError
		if errors.As(err, &transportErr) {
			return fmt.Errorf("relay imported row: %w", err)
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("relay imported row: %w", err)
		}
		slog.ErrorContext(ctx, "Collaborator rejected imported row, dropping",
			"import_id", msg.ImportID,
			"description", msg.Transaction.Description,
			"error", err)
		return nil
	}

	slog.InfoContext(ctx, "Relayed imported row to collaborator",
		"import_id", msg.ImportID,
		"remote_id", record.ID,
		"amount", payload.Amount)
	return nil
}

func toPayload(msg *amqp.ImportedRowMessage) api.TransactionPayload {
	tx := msg.Transaction
	return api.TransactionPayload{
		UserID:      msg.UserID,
		Type:        string(tx.Type),
		Description: tx.Description,
		Amount:      tx.Amount.Float(),
		Category:    tx.Category,
		Date:        tx.Date.String(),
	}
}

// ParseUserID converts a profile id to the collaborator's numeric
// form. Mock-issued ids that are not numeric map to zero.
func ParseUserID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
