package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the display format used by the history list and exports.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	CategoryDeposit  = "Deposit"
	CategoryTransfer = "Transfer"
)

type (
	// Transaction is one immutable, signed balance change.
	// Positive amounts are deposits, negative amounts are withdrawals.
	Transaction struct {
		Amount    decimal.Decimal
		Timestamp time.Time
		Category  string
	}

	// Account holds a balance and the append-only history that produced it.
	Account struct {
		ID     string
		Holder string

		initial      decimal.Decimal
		balance      decimal.Decimal
		transactions []Transaction
		now          func() time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmptyCategory     = errors.New("empty category")
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrEmptyAccountID    = errors.New("empty account id")
	ErrBalanceMismatch   = errors.New("balance does not match transaction history")
)

// IsDeposit reports whether the transaction added money to the account.
func (t Transaction) IsDeposit() bool {
	return t.Amount.IsPositive()
}

// IsWithdrawal reports whether the transaction took money from the account.
func (t Transaction) IsWithdrawal() bool {
	return t.Amount.IsNegative()
}

// FormattedTimestamp returns the timestamp in TimestampLayout.
func (t Transaction) FormattedTimestamp() string {
	return t.Timestamp.Format(TimestampLayout)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s: %s IDR at %s", t.Category, FormatCurrency(t.Amount), t.FormattedTimestamp())
}

func newAccount(id, holder string, initial decimal.Decimal, now func() time.Time) *Account {
	return &Account{
		ID:      id,
		Holder:  holder,
		initial: initial,
		balance: initial,
		now:     now,
	}
}

// Deposit adds amount to the balance and records it under category.
// Negative amounts and blank categories are rejected; zero is allowed.
func (a *Account) Deposit(amount decimal.Decimal, category string) (Transaction, error) {
	return a.depositAt(amount, category, a.now())
}

// Withdraw takes amount from the balance and records it under category.
// The account is left untouched when amount exceeds the balance.
func (a *Account) Withdraw(amount decimal.Decimal, category string) (Transaction, error) {
	return a.withdrawAt(amount, category, a.now())
}

func (a *Account) depositAt(amount decimal.Decimal, category string, at time.Time) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, ErrInvalidAmount
	}
	if err := validateCategory(category); err != nil {
		return Transaction{}, err
	}
	return a.record(amount, category, at), nil
}

func (a *Account) withdrawAt(amount decimal.Decimal, category string, at time.Time) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, ErrInvalidAmount
	}
	if err := validateCategory(category); err != nil {
		return Transaction{}, err
	}
	if amount.GreaterThan(a.balance) {
		return Transaction{}, ErrInsufficientFunds
	}
	return a.record(amount.Neg(), category, at), nil
}

func (a *Account) record(signed decimal.Decimal, category string, at time.Time) Transaction {
	t := Transaction{Amount: signed, Timestamp: at, Category: category}
	a.balance = a.balance.Add(signed)
	a.transactions = append(a.transactions, t)
	return t
}

// undo removes t, which must be the last recorded transaction.
func (a *Account) undo(t Transaction) {
	a.balance = a.balance.Sub(t.Amount)
	a.transactions = a.transactions[:len(a.transactions)-1]
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// InitialBalance returns the balance the account was created with.
func (a *Account) InitialBalance() decimal.Decimal {
	return a.initial
}

// TransactionHistory returns a copy of the history in insertion order.
func (a *Account) TransactionHistory() []Transaction {
	return append([]Transaction(nil), a.transactions...)
}

// Len returns the number of recorded transactions.
func (a *Account) Len() int {
	return len(a.transactions)
}

// Verify checks that the balance equals the initial balance plus every
// recorded amount and that it is not negative.
func (a *Account) Verify() error {
	sum := a.initial
	for _, t := range a.transactions {
		sum = sum.Add(t.Amount)
	}
	if !sum.Equal(a.balance) {
		return fmt.Errorf("%w: balance %s, replayed %s", ErrBalanceMismatch, a.balance, sum)
	}
	if a.balance.IsNegative() {
		return fmt.Errorf("%w: negative balance %s", ErrBalanceMismatch, a.balance)
	}
	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
