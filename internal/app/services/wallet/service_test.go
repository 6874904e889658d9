package wallet

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainwallet "bakeshop/internal/domain/wallet"
	"bakeshop/internal/infra/storage/memory"
)

func newService(trial int64) *Service {
	return &Service{Wallets: memory.NewWalletRepository(), TrialCredits: trial}
}

func TestEnsureTrial_GrantsOnce(t *testing.T) {
	svc := newService(10)
	ctx := context.Background()

	w, err := svc.EnsureTrial(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), w.Balance)
	require.Len(t, w.Entries, 1)
	assert.Equal(t, domainwallet.EntryTrial, w.Entries[0].Kind)

	// spending then re-visiting the studio must not re-grant
	require.NoError(t, svc.Debit(ctx, "cust-1", 4, "gen-1"))
	w, err = svc.EnsureTrial(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), w.Balance)
	assert.Len(t, w.Entries, 2)
}

func TestEnsureTrial_RequiresCustomer(t *testing.T) {
	svc := newService(10)
	_, err := svc.EnsureTrial(context.Background(), "  ")
	assert.ErrorIs(t, err, domainwallet.ErrCustomerRequired)
}

func TestDebit_CannotOverdraw(t *testing.T) {
	svc := newService(5)
	ctx := context.Background()
	_, err := svc.EnsureTrial(ctx, "cust-2")
	require.NoError(t, err)

	require.NoError(t, svc.Debit(ctx, "cust-2", 5, "gen-1"))
	err = svc.Debit(ctx, "cust-2", 1, "gen-2")
	assert.ErrorIs(t, err, domainwallet.ErrInsufficientCredits)

	w, err := svc.Balance(ctx, "cust-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
	assert.Len(t, w.Entries, 2, "the refused debit left no ledger line")
}

func TestDebit_ConcurrentSpendsRespectBalance(t *testing.T) {
	svc := newService(10)
	ctx := context.Background()
	_, err := svc.EnsureTrial(ctx, "cust-3")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Debit(ctx, "cust-3", 1, "gen")
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domainwallet.ErrInsufficientCredits)
		}
	}
	assert.Equal(t, 10, succeeded)

	w, err := svc.Balance(ctx, "cust-3")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestCredit(t *testing.T) {
	svc := newService(0)
	ctx := context.Background()

	// no trial configured: wallet does not exist until a grant or purchase
	_, err := svc.Balance(ctx, "cust-4")
	assert.ErrorIs(t, err, domainwallet.ErrWalletNotFound)

	err = svc.Credit(ctx, "cust-4", 50, domainwallet.EntryPurchase, "stripe-ch_123")
	assert.ErrorIs(t, err, domainwallet.ErrWalletNotFound, "purchases top up existing wallets only")

	svc.TrialCredits = 5
	_, err = svc.EnsureTrial(ctx, "cust-4")
	require.NoError(t, err)
	require.NoError(t, svc.Credit(ctx, "cust-4", 50, domainwallet.EntryPurchase, "stripe-ch_123"))

	w, err := svc.Balance(ctx, "cust-4")
	require.NoError(t, err)
	assert.Equal(t, int64(55), w.Balance)

	assert.ErrorIs(t, svc.Credit(ctx, "cust-4", 0, domainwallet.EntryPurchase, "x"), domainwallet.ErrInvalidAmount)
	assert.Error(t, svc.Credit(ctx, "cust-4", 10, domainwallet.EntryDebit, "x"))
}
