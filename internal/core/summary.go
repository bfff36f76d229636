package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categories lists the spending categories offered when using the card.
var Categories = []string{
	"Toll Road",
	"Public Transportation",
	"Supermarket",
	"Gas Station",
	"Recreational",
	"Other",
}

// IsSpendingCategory reports whether name is one of Categories.
func IsSpendingCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Point is one sample of a time series.
type Point struct {
	At     time.Time
	Amount decimal.Decimal
}

// Charts holds the four series shown next to the history.
type Charts struct {
	SpendingPattern  []CategoryAmount // signed total per category, first-seen order
	DepositHistory   []Point          // deposits only
	SpendingHistory  []Point          // withdrawals, as positive amounts
	TransactionStats []Point          // every transaction, signed
}

// BuildCharts computes all chart series from a transaction history.
func BuildCharts(history []Transaction) Charts {
	return Charts{
		SpendingPattern:  SpendingPattern(history),
		DepositHistory:   DepositHistory(history),
		SpendingHistory:  SpendingHistory(history),
		TransactionStats: TransactionStats(history),
	}
}

// SpendingPattern sums the signed amounts per category.
// Categories appear in the order they were first used.
func SpendingPattern(history []Transaction) []CategoryAmount {
	var out []CategoryAmount
	index := make(map[string]int)
	for _, t := range history {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryAmount{Name: t.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

func DepositHistory(history []Transaction) []Point {
	var out []Point
	for _, t := range history {
		if t.IsDeposit() {
			out = append(out, Point{At: t.Timestamp, Amount: t.Amount})
		}
	}
	return out
}

func SpendingHistory(history []Transaction) []Point {
	var out []Point
	for _, t := range history {
		if t.IsWithdrawal() {
			out = append(out, Point{At: t.Timestamp, Amount: t.Amount.Abs()})
		}
	}
	return out
}

func TransactionStats(history []Transaction) []Point {
	out := make([]Point, 0, len(history))
	for _, t := range history {
		out = append(out, Point{At: t.Timestamp, Amount: t.Amount})
	}
	return out
}
