package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"flazz/internal/core"

	"github.com/shopspring/decimal"
)

// Format names an export sink.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
	FormatSheets Format = "sheets"
	FormatMemory Format = "memory"
)

// ErrUnknownFormat is returned by ParseFormat for names outside the sink list.
var ErrUnknownFormat = errors.New("unknown export format")

// Header is the column layout shared by every sink.
var Header = []string{"Category", "Amount", "Timestamp", "Remaining Balance"}

type (
	// Report is the input to an export: the full history plus the balance at
	// the time of the request.
	Report struct {
		AccountID    string
		Holder       string
		Balance      decimal.Decimal
		Transactions []core.Transaction
		GeneratedAt  time.Time
	}

	// Row is one exported line. RemainingBalance is the balance snapshot of
	// the report, repeated on every row; it is not a running balance.
	Row struct {
		Category         string
		Amount           decimal.Decimal
		Timestamp        string
		RemainingBalance decimal.Decimal
	}

	// Exporter writes a report to dest and returns a reference to what it wrote.
	Exporter interface {
		Export(ctx context.Context, dest string, r Report) (ref string, err error)
	}

	// RowAppender adds single rows to an existing destination.
	RowAppender interface {
		AppendRow(ctx context.Context, row Row) (ref string, err error)
	}
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatXLSX, FormatCSV, FormatSQLite, FormatSheets, FormatMemory:
		return f, nil
	case "":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// Rows flattens a report in insertion order.
func Rows(r Report) []Row {
	rows := make([]Row, len(r.Transactions))
	for i, t := range r.Transactions {
		rows[i] = Row{
			Category:         t.Category,
			Amount:           t.Amount,
			Timestamp:        t.FormattedTimestamp(),
			RemainingBalance: r.Balance,
		}
	}
	return rows
}

// Strings renders the row for text based sinks.
func (r Row) Strings() []string {
	return []string{r.Category, r.Amount.StringFixed(2), r.Timestamp, r.RemainingBalance.StringFixed(2)}
}

// WithExtension appends ext to dest when dest has no extension.
func WithExtension(dest, ext string) string {
	if filepath.Ext(dest) == "" {
		return dest + ext
	}
	return dest
}
