package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"flazz/internal/core"
	"flazz/internal/events"
	"flazz/internal/export"
	"flazz/internal/export/memory"
	applog "flazz/internal/log"

	"github.com/shopspring/decimal"
)

type failingSink struct{ calls int }

func (f *failingSink) AppendRow(context.Context, export.Row) (string, error) {
	f.calls++
	return "", errors.New("quota exceeded")
}

func event(accountID string, seq int, amount int64, balance int64) *events.TransactionRecorded {
	tx := core.Transaction{
		Amount:    decimal.NewFromInt(amount),
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Category:  "Toll Road",
	}
	return events.NewTransactionRecorded(accountID, seq, tx, decimal.NewFromInt(balance))
}

func TestMirrorAppendsRow(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(store, "card", applog.Discard())

	if err := w.HandleTransaction(context.Background(), event("card", 2, -30000, 70000)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Category != "Toll Road" || !r.Amount.Equal(decimal.NewFromInt(-30000)) ||
		r.Timestamp != "2025-03-14 09:26:53" || !r.RemainingBalance.Equal(decimal.NewFromInt(70000)) {
		t.Fatalf("row %+v", r)
	}
}

func TestMirrorSkipsOtherAccountsAndDuplicates(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(store, "card", applog.Discard())
	ctx := context.Background()

	if err := w.HandleTransaction(ctx, event("savings", 1, 10, 10)); err != nil {
		t.Fatal(err)
	}
	evt := event("card", 1, 10, 10)
	for i := 0; i < 2; i++ {
		if err := w.HandleTransaction(ctx, evt); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(store.Rows()); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestMirrorAllAccounts(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(store, "", applog.Discard())
	_ = w.HandleTransaction(context.Background(), event("a", 1, 1, 1))
	_ = w.HandleTransaction(context.Background(), event("b", 1, 1, 1))
	if n := len(store.Rows()); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}

func TestMirrorReturnsSinkErrorForRequeue(t *testing.T) {
	sink := &failingSink{}
	w := NewMirrorWorker(sink, "", applog.Discard())
	evt := event("card", 1, 5, 5)

	if err := w.HandleTransaction(context.Background(), evt); err == nil {
		t.Fatal("expected error")
	}
	// A failed append must not mark the event as seen
	_ = w.HandleTransaction(context.Background(), evt)
	if sink.calls != 2 {
		t.Fatalf("expected retry to reach the sink, calls=%d", sink.calls)
	}
}
