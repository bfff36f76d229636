// Package events defines the messages emitted when the card ledger records
// a transaction.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flazz/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRecorded is published once per recorded transaction.
// Seq is the 1-based position of the transaction in the account history.
type TransactionRecorded struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Seq          int             `json:"seq"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    time.Time       `json:"timestamp"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// Publisher sends TransactionRecorded events to a broker.
type Publisher interface {
	PublishTransaction(ctx context.Context, msg *TransactionRecorded) error
	Close() error
}

// NewTransactionRecorded builds the event for t, the seq-th transaction of accountID.
func NewTransactionRecorded(accountID string, seq int, t core.Transaction, balanceAfter decimal.Decimal) *TransactionRecorded {
	return &TransactionRecorded{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Seq:          seq,
		Category:     t.Category,
		Amount:       t.Amount,
		Timestamp:    t.Timestamp,
		BalanceAfter: balanceAfter,
	}
}

// Transaction returns the core transaction carried by the event.
func (m *TransactionRecorded) Transaction() core.Transaction {
	return core.Transaction{Amount: m.Amount, Timestamp: m.Timestamp, Category: m.Category}
}

// Validate rejects messages that cannot be applied downstream.
func (m *TransactionRecorded) Validate() error {
	if m.AccountID == "" {
		return fmt.Errorf("event %s: %w", m.ID, core.ErrEmptyAccountID)
	}
	if m.Category == "" {
		return fmt.Errorf("event %s: %w", m.ID, core.ErrEmptyCategory)
	}
	if m.Seq < 1 {
		return fmt.Errorf("event %s: invalid seq %d", m.ID, m.Seq)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecorded) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedFromJSON decodes and validates a message.
func TransactionRecordedFromJSON(data []byte) (*TransactionRecorded, error) {
	var msg TransactionRecorded
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
