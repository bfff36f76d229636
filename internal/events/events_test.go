package events

import (
	"testing"
	"time"

	"flazz/internal/core"

	"github.com/shopspring/decimal"
)

func TestTransactionRecordedJSON(t *testing.T) {
	tx := core.Transaction{
		Amount:    decimal.RequireFromString("-30000.50"),
		Timestamp: time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		Category:  "Toll Road",
	}
	msg := NewTransactionRecorded("2702414841", 2, tx, decimal.NewFromInt(69999))
	if msg.ID == "" {
		t.Fatalf("expected generated id")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := TransactionRecordedFromJSON(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	back := got.Transaction()
	if !back.Amount.Equal(tx.Amount) || !back.Timestamp.Equal(tx.Timestamp) || back.Category != tx.Category {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestTransactionRecordedFromJSONRejectsInvalid(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"id":"x","seq":1,"category":"Other"}`,
		`{"id":"x","account_id":"a","seq":0,"category":"Other"}`,
		`{"id":"x","account_id":"a","seq":1}`,
	} {
		if _, err := TransactionRecordedFromJSON([]byte(body)); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}
