package memory

import (
	"context"
	"sync"
	"time"

	domainwallet "bakeshop/internal/domain/wallet"
)

type WalletRepository struct {
	mu      sync.Mutex
	wallets map[string]*domainwallet.Wallet
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{wallets: make(map[string]*domainwallet.Wallet)}
}

func (r *WalletRepository) ByCustomer(ctx context.Context, customerID string) (*domainwallet.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[customerID]
	if !ok {
		return nil, domainwallet.ErrWalletNotFound
	}
	copy := *w
	copy.Entries = append([]domainwallet.Entry(nil), w.Entries...)
	return &copy, nil
}

func (r *WalletRepository) GrantTrial(ctx context.Context, customerID string, credits int64, entry domainwallet.Entry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[customerID]; ok {
		return false, nil
	}
	now := time.Now().UTC()
	r.wallets[customerID] = &domainwallet.Wallet{
		CustomerID: customerID,
		Balance:    credits,
		Entries:    []domainwallet.Entry{entry},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return true, nil
}

func (r *WalletRepository) Apply(ctx context.Context, customerID string, entry domainwallet.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[customerID]
	if !ok {
		return domainwallet.ErrWalletNotFound
	}
	if w.Balance+entry.Amount < 0 {
		return domainwallet.ErrInsufficientCredits
	}
	w.Balance += entry.Amount
	w.Entries = append(w.Entries, entry)
	w.UpdatedAt = time.Now().UTC()
	return nil
}
