package worker

import (
	"context"
	"fmt"
	"sync"

	"flazz/internal/events"
	"flazz/internal/export"
	applog "flazz/internal/log"
)

// MirrorWorker appends every recorded card transaction to a row sink,
// typically the Google Sheets tab that mirrors the card log.
type MirrorWorker struct {
	sink      export.RowAppender
	accountID string
	logger    *applog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMirrorWorker mirrors events of accountID into sink. An empty accountID
// mirrors every account.
func NewMirrorWorker(sink export.RowAppender, accountID string, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &MirrorWorker{
		sink:      sink,
		accountID: accountID,
		logger:    logger.WithComponent(applog.ComponentWorker),
		seen:      make(map[string]struct{}),
	}
}

// HandleTransaction processes a single TransactionRecorded message from AMQP.
// Redelivered events are appended once; an append error is returned so the
// message is requeued.
func (w *MirrorWorker) HandleTransaction(ctx context.Context, msg *events.TransactionRecorded) error {
	if w.accountID != "" && msg.AccountID != w.accountID {
		w.logger.DebugContext(ctx, "Skipping event for other account",
			"id", msg.ID,
			applog.FieldAccountID, msg.AccountID)
		return nil
	}

	w.mu.Lock()
	_, dup := w.seen[msg.ID]
	w.mu.Unlock()
	if dup {
		w.logger.InfoContext(ctx, "Skipping duplicate event", "id", msg.ID, "seq", msg.Seq)
		return nil
	}

	tx := msg.Transaction()
	row := export.Row{
		Category:         tx.Category,
		Amount:           tx.Amount,
		Timestamp:        tx.FormattedTimestamp(),
		RemainingBalance: msg.BalanceAfter,
	}
	ref, err := w.sink.AppendRow(ctx, row)
	if err != nil {
		return fmt.Errorf("append row for event %s: %w", msg.ID, err)
	}

	w.mu.Lock()
	w.seen[msg.ID] = struct{}{}
	w.mu.Unlock()

	fields := applog.NewFields().
		WithOperation(applog.OpMirror).
		WithTransaction(msg.AccountID, tx.Category, tx.Amount.StringFixed(2), msg.BalanceAfter.StringFixed(2))
	w.logger.InfoContext(ctx, "Mirrored transaction", append(fields.ToSlice(), "seq", msg.Seq, applog.FieldExportRef, ref)...)
	return nil
}
