package promo

import (
	"context"
	"errors"
	"strings"
	"time"

	"bakeshop/internal/domain/calendar"
)

var (
	ErrPromoNotFound  = errors.New("promo: code not found")
	ErrPromoInactive  = errors.New("promo: code is inactive")
	ErrPromoExpired   = errors.New("promo: code has expired")
	ErrPromoExhausted = errors.New("promo: redemption limit reached")
	ErrInvalidPromo   = errors.New("promo: invalid definition")
)

type Kind string

const (
	KindPercent Kind = "percent"
	KindFixed   Kind = "fixed"
)

// Promo is a discount code. Exactly one of PercentOff / AmountOffCents is
// meaningful, selected by Kind. MaxRedemptions 0 means unlimited; ExpiresOn
// zero means it never expires.
type Promo struct {
	Code           string
	Kind           Kind
	PercentOff     int
	AmountOffCents int64
	ExpiresOn      calendar.Day
	MaxRedemptions int
	Redemptions    int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeCode canonicalizes user input; codes are case-insensitive.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

type CreateParams struct {
	Code           string
	Kind           Kind
	PercentOff     int
	AmountOffCents int64
	ExpiresOn      calendar.Day
	MaxRedemptions int
	Now            time.Time
}

func New(params CreateParams) (*Promo, error) {
	code := NormalizeCode(params.Code)
	if code == "" {
		return nil, ErrInvalidPromo
	}
	switch params.Kind {
	case KindPercent:
		if params.PercentOff <= 0 || params.PercentOff > 100 {
			return nil, ErrInvalidPromo
		}
	case KindFixed:
		if params.AmountOffCents <= 0 {
			return nil, ErrInvalidPromo
		}
	default:
		return nil, ErrInvalidPromo
	}
	if params.MaxRedemptions < 0 {
		return nil, ErrInvalidPromo
	}
	now := params.Now.UTC()
	return &Promo{
		Code:           code,
		Kind:           params.Kind,
		PercentOff:     params.PercentOff,
		AmountOffCents: params.AmountOffCents,
		ExpiresOn:      params.ExpiresOn,
		MaxRedemptions: params.MaxRedemptions,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Usable checks whether the code can be applied on the given day.
func (p Promo) Usable(on calendar.Day) error {
	if !p.Active {
		return ErrPromoInactive
	}
	if !p.ExpiresOn.IsZero() && on.After(p.ExpiresOn) {
		return ErrPromoExpired
	}
	if p.MaxRedemptions > 0 && p.Redemptions >= p.MaxRedemptions {
		return ErrPromoExhausted
	}
	return nil
}

// Discount returns the cents taken off the subtotal, never more than the
// subtotal itself.
func (p Promo) Discount(subtotalCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}
	var off int64
	switch p.Kind {
	case KindPercent:
		off = subtotalCents * int64(p.PercentOff) / 100
	case KindFixed:
		off = p.AmountOffCents
	}
	if off > subtotalCents {
		off = subtotalCents
	}
	if off < 0 {
		off = 0
	}
	return off
}

// Repository persists promo codes. Redeem is the atomic redemption counter
// bump: it fails with ErrPromoExhausted when the limit is already reached,
// without a read-then-write window.
type Repository interface {
	ByCode(ctx context.Context, code string) (*Promo, error)
	Save(ctx context.Context, p *Promo) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]*Promo, error)
	Redeem(ctx context.Context, code string) error
}
