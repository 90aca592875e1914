package worker

import (
	"context"
	"testing"

	"wealthify/internal/amqp"
	"wealthify/internal/api"
	"wealthify/internal/core"
)

type fakeSink struct {
	received []api.TransactionPayload
	err      error
}

func (f *fakeSink) AddTransaction(_ context.Context, payload api.TransactionPayload) (api.TransactionRecord, error) {
	if f.err != nil {
		return api.TransactionRecord{}, f.err
	}
	f.received = append(f.received, payload)
	return api.TransactionRecord{TransactionPayload: payload, ID: 1}, nil
}

func sampleMessage() *amqp.ImportedRowMessage {
	return amqp.NewImportedRowMessage("imp-1", 7, core.Transaction{
		ID:          "tx-1",
		Type:        core.Expense,
		Description: "Groceries, weekly",
		Category:    "Food",
		Amount:      core.Money{Cents: 15678},
		Date:        core.NewDate(2026, 8, 3),
	})
}

func TestHandleImportedRowConvertsPayload(t *testing.T) {
	sink := &fakeSink{}
	w := NewRelayWorker(sink)

	if err := w.HandleImportedRow(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sink.received) != 1 {
		t.Fatalf("received = %d", len(sink.received))
	}
	got := sink.received[0]
	if got.UserID != 7 || got.Type != "expense" || got.Amount != 156.78 || got.Date != "2026-08-03" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestHandleImportedRowRequeuesOnTransportFailure(t *testing.T) {
	sink := &fakeSink{err: &api.TransportError{Op: "POST /transactions", Err: context.DeadlineExceeded}}
	w := NewRelayWorker(sink)

	if err := w.HandleImportedRow(context.Background(), sampleMessage()); err == nil {
		t.Fatal("transport failure must bubble up for requeue")
	}
}

func TestHandleImportedRowDropsRejectedPayload(t *testing.T) {
	sink := &fakeSink{err: &api.StatusError{Status: 400, Detail: "User ID 7 does not exist"}}
	w := NewRelayWorker(sink)

	if err := w.HandleImportedRow(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("rejected payload must be dropped, got %v", err)
	}
}

func TestParseUserID(t *testing.T) {
	if got := ParseUserID("42"); got != 42 {
		t.Errorf("ParseUserID(42) = %d", got)
	}
	if got := ParseUserID("user-123"); got != 0 {
		t.Errorf("ParseUserID(user-123) = %d", got)
	}
}
