package google

import (
	"context"
	"testing"

	"flazz/internal/export"

	"github.com/shopspring/decimal"
)

func TestReportValues(t *testing.T) {
	rows := []export.Row{
		{Category: "Deposit", Amount: decimal.NewFromInt(100000), Timestamp: "2025-01-01 10:00:00", RemainingBalance: decimal.NewFromInt(70000)},
		{Category: "Toll Road", Amount: decimal.NewFromInt(-30000), Timestamp: "2025-01-01 11:00:00", RemainingBalance: decimal.NewFromInt(70000)},
	}
	values := reportValues(rows)
	if len(values) != 3 {
		t.Fatalf("values = %d rows, want 3", len(values))
	}
	if values[0][0] != "Category" || values[0][3] != "Remaining Balance" {
		t.Fatalf("header %v", values[0])
	}
	if values[2][0] != "Toll Road" || values[2][1] != -30000.0 || values[2][3] != 70000.0 {
		t.Fatalf("row %v", values[2])
	}
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without spreadsheet id")
	}
}

func TestUninitialisedClient(t *testing.T) {
	c := &Client{}
	if _, err := c.Export(context.Background(), "", export.Report{}); err == nil {
		t.Fatalf("expected error from client without service")
	}
	if _, err := c.AppendRow(context.Background(), export.Row{}); err == nil {
		t.Fatalf("expected error from client without service")
	}
}
