package wallet

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainwallet "bakeshop/internal/domain/wallet"
)

// Service manages prepaid photo-studio credits. All balance movement is
// ledgered; the repository guarantees a debit can never overdraw.
type Service struct {
	Wallets      domainwallet.Repository
	TrialCredits int64
	Logger       *slog.Logger
}

// EnsureTrial grants the one-time trial balance. It is safe to call on
// every studio visit: only the first call for a customer creates anything.
func (s *Service) EnsureTrial(ctx context.Context, customerID string) (*domainwallet.Wallet, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, domainwallet.ErrCustomerRequired
	}
	if s.TrialCredits > 0 {
		entry := domainwallet.Entry{
			ID:        uuid.NewString(),
			Kind:      domainwallet.EntryTrial,
			Amount:    s.TrialCredits,
			Reference: "signup",
			At:        time.Now().UTC(),
		}
		granted, err := s.Wallets.GrantTrial(ctx, customerID, s.TrialCredits, entry)
		if err != nil {
			return nil, err
		}
		if granted && s.Logger != nil {
			s.Logger.Info("trial credits granted", "customer", customerID, "credits", s.TrialCredits)
		}
	}
	return s.Wallets.ByCustomer(ctx, customerID)
}

func (s *Service) Balance(ctx context.Context, customerID string) (*domainwallet.Wallet, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, domainwallet.ErrCustomerRequired
	}
	return s.Wallets.ByCustomer(ctx, customerID)
}

// Credit adds purchased or refunded credits.
func (s *Service) Credit(ctx context.Context, customerID string, amount int64, kind domainwallet.EntryKind, reference string) error {
	if amount <= 0 {
		return domainwallet.ErrInvalidAmount
	}
	if kind != domainwallet.EntryPurchase && kind != domainwallet.EntryRefund {
		return errors.New("wallet: credit kind must be purchase or refund")
	}
	return s.apply(ctx, customerID, amount, kind, reference)
}

// Debit spends credits, e.g. one AI studio generation. Fails with
// ErrInsufficientCredits when the balance cannot cover it.
func (s *Service) Debit(ctx context.Context, customerID string, amount int64, reference string) error {
	if amount <= 0 {
		return domainwallet.ErrInvalidAmount
	}
	return s.apply(ctx, customerID, -amount, domainwallet.EntryDebit, reference)
}

func (s *Service) apply(ctx context.Context, customerID string, amount int64, kind domainwallet.EntryKind, reference string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domainwallet.ErrCustomerRequired
	}
	entry := domainwallet.Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Amount:    amount,
		Reference: reference,
		At:        time.Now().UTC(),
	}
	if err := s.Wallets.Apply(ctx, customerID, entry); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("wallet entry applied", "customer", customerID, "kind", kind, "amount", amount)
	}
	return nil
}
