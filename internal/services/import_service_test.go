package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wealthify/internal/amqp"
	"wealthify/internal/ledger"
)

type fakePublisher struct {
	published []*amqp.ImportedRowMessage
	fail      bool
}

func (f *fakePublisher) PublishImportedRow(_ context.Context, msg *amqp.ImportedRowMessage) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, msg)
	return nil
}

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(context.Background(), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return l
}

const sampleCSV = "Date,Description,Category,Type,Amount\n" +
	"2026-08-01,Salary Deposit,Salary,income,2600.00\n" +
	"2026-08-03,\"Groceries, weekly\",Food,expense,156.78\n"

func TestImportAppliesRowsAndQueues(t *testing.T) {
	l := newTestLedger(t)
	pub := &fakePublisher{}
	svc := NewImportService(l, pub)
	before := l.Data()

	result, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), 7)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || result.Queued != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.ImportID == "" {
		t.Fatal("import id missing")
	}

	after := l.Data()
	wantBalance := before.TotalBalance.Cents + 260000 - 15678
	if after.TotalBalance.Cents != wantBalance {
		t.Fatalf("balance = %d, want %d", after.TotalBalance.Cents, wantBalance)
	}
	if after.RecentTransactions[0].Description != "Groceries, weekly" {
		t.Fatalf("recent head = %+v", after.RecentTransactions[0])
	}
	if pub.published[0].UserID != 7 || pub.published[0].ImportID != result.ImportID {
		t.Fatalf("published = %+v", pub.published[0])
	}
}

func TestImportBadRowLeavesLedgerUntouched(t *testing.T) {
	l := newTestLedger(t)
	svc := NewImportService(l, &fakePublisher{})
	before := l.Data()

	bad := "Date,Description,Category,Type,Amount\n" +
		"2026-08-01,Salary,Salary,income,2600.00\n" +
		"not-a-date,Broken,Food,expense,10.00\n"
	_, err := svc.Import(context.Background(), strings.NewReader(bad), 7)
	if err == nil {
		t.Fatal("expected parse error")
	}
	after := l.Data()
	if after.TotalBalance.Cents != before.TotalBalance.Cents {
		t.Fatal("a failed parse must not touch the ledger")
	}
	if len(after.RecentTransactions) != len(before.RecentTransactions) {
		t.Fatal("a failed parse must not add transactions")
	}
}

func TestImportSurvivesBrokerOutage(t *testing.T) {
	l := newTestLedger(t)
	svc := NewImportService(l, &fakePublisher{fail: true})

	result, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), 7)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || result.Queued != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestImportWithoutPublisher(t *testing.T) {
	l := newTestLedger(t)
	svc := NewImportService(l, nil)

	result, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), 7)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || result.Queued != 0 {
		t.Fatalf("result = %+v", result)
	}
}
