// Package sqlite writes the transaction log into a standalone SQLite file.
// The file is an export artefact; it is never read back by the ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flazz/internal/core"
	"flazz/internal/export"
	applog "flazz/internal/log"

	_ "modernc.org/sqlite"
)

type Exporter struct {
	logger *applog.Logger
}

var _ export.Exporter = (*Exporter)(nil)

func New(logger *applog.Logger) *Exporter {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Exporter{logger: logger.WithComponent(applog.ComponentExport)}
}

// Export replaces any file at dest with a fresh database holding the report.
func (e *Exporter) Export(ctx context.Context, dest string, r export.Report) (string, error) {
	path := export.WithExtension(dest, ".db")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create db directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("replace existing export: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	if err := writeReport(ctx, db, r); err != nil {
		return "", err
	}

	e.logger.InfoContext(ctx, "Transaction log exported to SQLite",
		"path", path,
		"rows", len(r.Transactions))

	return path, nil
}

func writeReport(ctx context.Context, db *sql.DB, r export.Report) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO account (id, holder, balance, exported_at) VALUES (?, ?, ?, ?)`,
		r.AccountID, r.Holder, r.Balance.String(), generated.Format(core.TimestampLayout)); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (seq, category, amount, timestamp, remaining_balance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range export.Rows(r) {
		if _, err := stmt.ExecContext(ctx, i+1, row.Category, row.Amount.String(), row.Timestamp, row.RemainingBalance.String()); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}
