package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flazz/internal/core"
	"flazz/internal/export"

	"github.com/shopspring/decimal"
)

func TestExportWritesHeaderAndRows(t *testing.T) {
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	r := export.Report{
		Balance: decimal.NewFromInt(95),
		Transactions: []core.Transaction{
			{Amount: decimal.NewFromInt(100), Timestamp: at, Category: core.CategoryDeposit},
			{Amount: decimal.NewFromInt(-5), Timestamp: at, Category: "Public Transportation"},
		},
	}
	path, err := New().Export(context.Background(), filepath.Join(t.TempDir(), "log"), r)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(path, ".csv") {
		t.Fatalf("path %q missing .csv", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Category,Amount,Timestamp,Remaining Balance\n" +
		"Deposit,100.00,2025-06-01 08:00:00,95.00\n" +
		"Public Transportation,-5.00,2025-06-01 08:00:00,95.00\n"
	if string(data) != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", data, want)
	}
}

func TestExportEmptyHistoryWritesHeaderOnly(t *testing.T) {
	path, err := New().Export(context.Background(), filepath.Join(t.TempDir(), "empty.csv"), export.Report{})
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "Category,Amount,Timestamp,Remaining Balance\n" {
		t.Fatalf("unexpected content %q", data)
	}
}
