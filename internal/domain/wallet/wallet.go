package wallet

import (
	"context"
	"errors"
	"time"
)

var (
	ErrWalletNotFound      = errors.New("wallet: not found")
	ErrInsufficientCredits = errors.New("wallet: insufficient credits")
	ErrInvalidAmount       = errors.New("wallet: amount must be positive")
	ErrCustomerRequired    = errors.New("wallet: customer id is required")
)

type EntryKind string

const (
	EntryTrial    EntryKind = "trial"
	EntryPurchase EntryKind = "purchase"
	EntryDebit    EntryKind = "debit"
	EntryRefund   EntryKind = "refund"
)

// Entry is one ledger line. Amount is signed: grants are positive, debits
// negative. The wallet balance is always the sum of its entries.
type Entry struct {
	ID        string
	Kind      EntryKind
	Amount    int64
	Reference string
	At        time.Time
}

// Wallet holds prepaid photo-studio credits for one customer.
type Wallet struct {
	CustomerID string
	Balance    int64
	Entries    []Entry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Repository persists wallets. The two mutating operations are atomic at
// the store level:
//
//   - GrantTrial creates the wallet with the trial balance only if no
//     wallet exists yet for the customer; it reports whether the grant
//     happened. Calling it again is a no-op, not an error.
//   - Apply appends a ledger entry and moves the balance in one guarded
//     step; a debit that would take the balance below zero fails with
//     ErrInsufficientCredits and writes nothing.
type Repository interface {
	ByCustomer(ctx context.Context, customerID string) (*Wallet, error)
	GrantTrial(ctx context.Context, customerID string, credits int64, entry Entry) (bool, error)
	Apply(ctx context.Context, customerID string, entry Entry) error
}
