package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the registry of accounts for one card issuer.
// It is not safe for concurrent use; callers serialise access.
type Ledger struct {
	Name string

	accounts map[string]*Account
	order    []string
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger creates an empty ledger.
func NewLedger(name string, opts ...Option) *Ledger {
	l := &Ledger{
		Name:     name,
		accounts: make(map[string]*Account),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateAccount registers a new account with an empty history.
// An existing id is never overwritten: ErrAccountExists is returned instead.
func (l *Ledger) CreateAccount(id, holder string, initial decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyAccountID
	}
	if initial.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if _, ok := l.accounts[id]; ok {
		return nil, ErrAccountExists
	}
	a := newAccount(id, holder, initial, l.now)
	l.accounts[id] = a
	l.order = append(l.order, id)
	return a, nil
}

// Account looks up an account by id.
func (l *Ledger) Account(id string) (*Account, bool) {
	a, ok := l.accounts[id]
	return a, ok
}

// Accounts returns the accounts in creation order.
func (l *Ledger) Accounts() []*Account {
	out := make([]*Account, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.accounts[id])
	}
	return out
}

// Transfer moves amount between two accounts, recording a "Transfer"
// withdrawal on from and a "Transfer" deposit on to with the same timestamp.
// The deposit is only made once the withdrawal has been applied, so a failed
// transfer leaves both accounts untouched.
func (l *Ledger) Transfer(fromID, toID string, amount decimal.Decimal) error {
	from, ok := l.accounts[fromID]
	if !ok {
		return ErrAccountNotFound
	}
	to, ok := l.accounts[toID]
	if !ok {
		return ErrAccountNotFound
	}

	at := l.now()
	out, err := from.withdrawAt(amount, CategoryTransfer, at)
	if err != nil {
		return err
	}
	if _, err := to.depositAt(amount, CategoryTransfer, at); err != nil {
		from.undo(out)
		return err
	}
	return nil
}
