package export

import (
	"errors"
	"testing"
	"time"

	"flazz/internal/core"

	"github.com/shopspring/decimal"
)

func TestRowsRepeatBalanceSnapshot(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r := Report{
		Balance: decimal.NewFromInt(70000),
		Transactions: []core.Transaction{
			{Amount: decimal.NewFromInt(100000), Timestamp: at, Category: core.CategoryDeposit},
			{Amount: decimal.NewFromInt(-30000), Timestamp: at.Add(time.Minute), Category: "Toll Road"},
		},
	}
	rows := Rows(r)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Category != core.CategoryDeposit || rows[1].Category != "Toll Road" {
		t.Fatalf("rows out of insertion order: %+v", rows)
	}
	for _, row := range rows {
		if !row.RemainingBalance.Equal(decimal.NewFromInt(70000)) {
			t.Fatalf("remaining balance %s, want snapshot 70000", row.RemainingBalance)
		}
	}
	want := []string{"Toll Road", "-30000.00", "2025-01-02 03:05:05", "70000.00"}
	got := rows[1].Strings()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatXLSX, true},
		{"XLSX", FormatXLSX, true},
		{" csv ", FormatCSV, true},
		{"sqlite", FormatSQLite, true},
		{"sheets", FormatSheets, true},
		{"memory", FormatMemory, true},
		{"pdf", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %q err=%v", tc.in, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrUnknownFormat) {
			t.Fatalf("%q: expected ErrUnknownFormat, got %v", tc.in, err)
		}
	}
}

func TestWithExtension(t *testing.T) {
	if got := WithExtension("out/history", ".xlsx"); got != "out/history.xlsx" {
		t.Fatalf("got %q", got)
	}
	if got := WithExtension("out/history.data", ".xlsx"); got != "out/history.data" {
		t.Fatalf("got %q", got)
	}
}
