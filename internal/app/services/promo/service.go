package promo

import (
	"context"
	"log/slog"
	"time"

	"bakeshop/internal/domain/calendar"
	domainpromo "bakeshop/internal/domain/promo"
)

// Service covers promo administration and the public "is this code good"
// check the checkout form calls before submitting.
type Service struct {
	Promos domainpromo.Repository
	Logger *slog.Logger
}

type Quote struct {
	Code          string `json:"code"`
	Valid         bool   `json:"valid"`
	DiscountCents int64  `json:"discount_cents"`
	Reason        string `json:"reason,omitempty"`
}

// Validate prices a code against a subtotal without redeeming it. An
// unusable code is a normal answer, not an error.
func (s *Service) Validate(ctx context.Context, code string, subtotalCents int64) (Quote, error) {
	normalized := domainpromo.NormalizeCode(code)
	p, err := s.Promos.ByCode(ctx, normalized)
	if err != nil {
		return Quote{}, err
	}
	if err := p.Usable(calendar.Today(time.UTC)); err != nil {
		return Quote{Code: normalized, Valid: false, Reason: err.Error()}, nil
	}
	return Quote{Code: normalized, Valid: true, DiscountCents: p.Discount(subtotalCents)}, nil
}

func (s *Service) Create(ctx context.Context, params domainpromo.CreateParams) (*domainpromo.Promo, error) {
	params.Now = time.Now()
	p, err := domainpromo.New(params)
	if err != nil {
		return nil, err
	}
	if err := s.Promos.Save(ctx, p); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("promo created", "code", p.Code, "kind", p.Kind)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*domainpromo.Promo, error) {
	return s.Promos.List(ctx)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	if err := s.Promos.Delete(ctx, domainpromo.NormalizeCode(code)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("promo deleted", "code", domainpromo.NormalizeCode(code))
	}
	return nil
}
