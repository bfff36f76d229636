package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"flazz/internal/core"
	"flazz/internal/events"
	"flazz/internal/export"
	applog "flazz/internal/log"

	"github.com/shopspring/decimal"
)

const titleInsufficientBalance = "Insufficient Balance"

var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrFormatUnavailable = errors.New("export format not configured")
	ErrForeignAccount    = errors.New("account does not belong to ledger")
)

// Options carries the optional collaborators of a CardService.
type Options struct {
	Exporters     map[export.Format]export.Exporter
	DefaultFormat export.Format
	ExportDir     string
	Publisher     events.Publisher
	Notifier      Notifier
	Logger        *applog.Logger
	Clock         func() time.Time
}

// Snapshot is a consistent view of the card for rendering.
type Snapshot struct {
	LedgerName string
	AccountID  string
	Holder     string
	Balance    decimal.Decimal
	History    []core.Transaction
	Charts     core.Charts
}

// CardService is the entry point the presentation layer calls in response to
// user actions. Ledger calls are serialised so exactly one runs at a time.
type CardService struct {
	mu        sync.Mutex
	ledger    *core.Ledger
	account   *core.Account
	exporters map[export.Format]export.Exporter
	format    export.Format
	exportDir string
	publisher events.Publisher
	notifier  Notifier
	logger    *applog.Logger
	now       func() time.Time
}

// NewCardService wires the service around an account owned by ledger.
func NewCardService(ledger *core.Ledger, account *core.Account, opts Options) (*CardService, error) {
	if ledger == nil || account == nil {
		return nil, errors.New("ledger and account are required")
	}
	if owned, ok := ledger.Account(account.ID); !ok || owned != account {
		return nil, fmt.Errorf("%w: %s", ErrForeignAccount, account.ID)
	}

	s := &CardService{
		ledger:    ledger,
		account:   account,
		exporters: opts.Exporters,
		format:    opts.DefaultFormat,
		exportDir: opts.ExportDir,
		publisher: opts.Publisher,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		now:       opts.Clock,
	}
	if s.exporters == nil {
		s.exporters = map[export.Format]export.Exporter{}
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(applog.ComponentLedger)
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.format == "" {
		s.format = export.FormatXLSX
	}
	return s, nil
}

// AddMoney parses amountText and deposits it under the "Deposit" category.
func (s *CardService) AddMoney(ctx context.Context, amountText string) (core.Transaction, error) {
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amountText, err)
	}

	s.mu.Lock()
	tx, err := s.account.Deposit(amount, core.CategoryDeposit)
	balance := s.account.Balance()
	s.publish(ctx, s.eventFor(s.account, tx, err))
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("deposit: %w", err)
	}

	s.logTransaction(ctx, applog.OpDeposit, tx, balance)
	return tx, nil
}

// UseMoney parses amountText and withdraws it under category. When the
// balance is too low the user is notified and ErrInsufficientFunds returned.
func (s *CardService) UseMoney(ctx context.Context, amountText, category string) (core.Transaction, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return core.Transaction{}, core.ErrEmptyCategory
	}
	if !core.IsSpendingCategory(category) {
		return core.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amountText, err)
	}

	s.mu.Lock()
	tx, err := s.account.Withdraw(amount, category)
	balance := s.account.Balance()
	s.publish(ctx, s.eventFor(s.account, tx, err))
	s.mu.Unlock()

	if errors.Is(err, core.ErrInsufficientFunds) {
		s.notify(ctx, titleInsufficientBalance,
			fmt.Sprintf("Not enough balance. Current balance: %s %s", core.FormatCurrency(balance), core.Currency))
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("withdraw: %w", err)
	}

	s.logTransaction(ctx, applog.OpWithdraw, tx, balance)
	return tx, nil
}

// Transfer moves money from the card account to toID.
func (s *CardService) Transfer(ctx context.Context, toID, amountText string) error {
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", amountText, err)
	}
	toID = strings.TrimSpace(toID)

	s.mu.Lock()
	err = s.ledger.Transfer(s.account.ID, toID, amount)
	balance := s.account.Balance()
	if err == nil && s.publisher != nil {
		to, _ := s.ledger.Account(toID)
		if to == s.account {
			// Both legs landed on the card
			s.publish(ctx, s.eventAt(s.account, s.account.Len()-1))
		}
		s.publish(ctx, s.eventAt(s.account, s.account.Len()))
		if to != s.account {
			s.publish(ctx, s.eventAt(to, to.Len()))
		}
	}
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, core.ErrInsufficientFunds) {
			s.notify(ctx, titleInsufficientBalance,
				fmt.Sprintf("Transfer failed. Current balance: %s %s", core.FormatCurrency(balance), core.Currency))
		}
		return fmt.Errorf("transfer to %s: %w", toID, err)
	}

	s.logger.InfoContext(ctx, "Transfer recorded",
		applog.FieldOperation, applog.OpTransfer,
		applog.FieldAccountID, s.account.ID,
		applog.FieldCounterpart, toID,
		applog.FieldAmount, amount.StringFixed(2),
		applog.FieldBalance, balance.StringFixed(2))
	return nil
}

// Snapshot returns the current balance, history and chart series.
func (s *CardService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.account.TransactionHistory()
	return Snapshot{
		LedgerName: s.ledger.Name,
		AccountID:  s.account.ID,
		Holder:     s.account.Holder,
		Balance:    s.account.Balance(),
		History:    history,
		Charts:     core.BuildCharts(history),
	}
}

// Formats lists the configured export formats in name order.
func (s *CardService) Formats() []export.Format {
	out := make([]export.Format, 0, len(s.exporters))
	for f := range s.exporters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultFormat is the format used when the user does not pick one.
func (s *CardService) DefaultFormat() export.Format {
	return s.format
}

// Export writes the full history and current balance with the exporter for
// format. An empty dest picks a timestamped file name in the export directory;
// relative names are placed there too. For sheets dest names the tab.
func (s *CardService) Export(ctx context.Context, format export.Format, dest string) (string, error) {
	exp, ok := s.exporters[format]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFormatUnavailable, format)
	}

	s.mu.Lock()
	report := export.Report{
		AccountID:    s.account.ID,
		Holder:       s.account.Holder,
		Balance:      s.account.Balance(),
		Transactions: s.account.TransactionHistory(),
		GeneratedAt:  s.now(),
	}
	s.mu.Unlock()

	dest = strings.TrimSpace(dest)
	if format != export.FormatSheets {
		switch {
		case dest == "":
			dest = filepath.Join(s.exportDir, "transactions_"+report.GeneratedAt.Format("20060102_150405"))
		case !filepath.IsAbs(dest):
			dest = filepath.Join(s.exportDir, dest)
		}
	}

	ref, err := exp.Export(ctx, dest, report)
	if err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpExport).
			WithError(err)
		fields[applog.FieldExportFmt] = string(format)
		s.logger.ErrorContext(ctx, "Export failed", fields.ToSlice()...)
		return "", fmt.Errorf("export %s: %w", format, err)
	}

	s.logger.InfoContext(ctx, "Transaction history exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldExportFmt, string(format),
		applog.FieldExportRef, ref,
		applog.FieldHistoryLen, len(report.Transactions))
	s.notify(ctx, "Export Successful", "Transaction history exported to "+ref)
	return ref, nil
}

// Close releases the event publisher.
func (s *CardService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}

// eventFor must be called with s.mu held, right after the operation.
// Events are published under the same lock so brokers see them in seq order.
func (s *CardService) eventFor(a *core.Account, tx core.Transaction, err error) *events.TransactionRecorded {
	if err != nil || s.publisher == nil {
		return nil
	}
	return events.NewTransactionRecorded(a.ID, a.Len(), tx, a.Balance())
}

// eventAt describes the seq-th transaction of a (1-based). It must be called
// with s.mu held.
func (s *CardService) eventAt(a *core.Account, seq int) *events.TransactionRecorded {
	history := a.TransactionHistory()
	if seq < 1 || seq > len(history) {
		return nil
	}
	balance := a.Balance()
	if seq < len(history) {
		// Balance right after an earlier entry: replay back from the current one
		for _, t := range history[seq:] {
			balance = balance.Sub(t.Amount)
		}
	}
	return events.NewTransactionRecorded(a.ID, seq, history[seq-1], balance)
}

func (s *CardService) publish(ctx context.Context, evt *events.TransactionRecorded) {
	if evt == nil {
		return
	}
	if err := s.publisher.PublishTransaction(ctx, evt); err != nil {
		// The ledger already holds the transaction; publishing is best effort
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldAccountID, evt.AccountID,
			"seq", evt.Seq,
			applog.FieldError, err)
	}
}

func (s *CardService) notify(ctx context.Context, title, message string) {
	s.notifier.Notify(ctx, Notification{Title: title, Message: message, At: s.now()})
}

func (s *CardService) logTransaction(ctx context.Context, op string, tx core.Transaction, balance decimal.Decimal) {
	fields := applog.NewFields().
		WithOperation(op).
		WithTransaction(s.account.ID, tx.Category, tx.Amount.StringFixed(2), balance.StringFixed(2))
	s.logger.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)
}
