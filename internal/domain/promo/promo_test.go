package promo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakeshop/internal/domain/calendar"
)

func TestNew_Validation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		params  CreateParams
		wantErr bool
	}{
		{name: "valid percent", params: CreateParams{Code: "spring10", Kind: KindPercent, PercentOff: 10, Now: now}},
		{name: "valid fixed", params: CreateParams{Code: "FIVER", Kind: KindFixed, AmountOffCents: 500, Now: now}},
		{name: "empty code", params: CreateParams{Kind: KindPercent, PercentOff: 10, Now: now}, wantErr: true},
		{name: "percent over 100", params: CreateParams{Code: "X", Kind: KindPercent, PercentOff: 120, Now: now}, wantErr: true},
		{name: "zero fixed amount", params: CreateParams{Code: "X", Kind: KindFixed, Now: now}, wantErr: true},
		{name: "unknown kind", params: CreateParams{Code: "X", Kind: "bogo", Now: now}, wantErr: true},
		{name: "negative limit", params: CreateParams{Code: "X", Kind: KindFixed, AmountOffCents: 100, MaxRedemptions: -1, Now: now}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPromo)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.Active)
		})
	}
}

func TestNew_NormalizesCode(t *testing.T) {
	p, err := New(CreateParams{Code: "  spring10 ", Kind: KindPercent, PercentOff: 10, Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "SPRING10", p.Code)
}

func TestUsable(t *testing.T) {
	today := calendar.MustDay(2025, time.June, 15)

	p, _ := New(CreateParams{Code: "OK", Kind: KindPercent, PercentOff: 10, Now: time.Now()})
	assert.NoError(t, p.Usable(today))

	p.Active = false
	assert.ErrorIs(t, p.Usable(today), ErrPromoInactive)
	p.Active = true

	p.ExpiresOn = calendar.MustDay(2025, time.June, 14)
	assert.ErrorIs(t, p.Usable(today), ErrPromoExpired)
	p.ExpiresOn = today
	assert.NoError(t, p.Usable(today), "expiry day itself is still valid")

	p.ExpiresOn = calendar.Day{}
	p.MaxRedemptions = 2
	p.Redemptions = 2
	assert.ErrorIs(t, p.Usable(today), ErrPromoExhausted)
}

func TestDiscount(t *testing.T) {
	percent, _ := New(CreateParams{Code: "P25", Kind: KindPercent, PercentOff: 25, Now: time.Now()})
	assert.Equal(t, int64(1000), percent.Discount(4000))
	assert.Equal(t, int64(0), percent.Discount(0))

	fixed, _ := New(CreateParams{Code: "F", Kind: KindFixed, AmountOffCents: 500, Now: time.Now()})
	assert.Equal(t, int64(500), fixed.Discount(4000))
	assert.Equal(t, int64(300), fixed.Discount(300), "discount is capped at the subtotal")
}
