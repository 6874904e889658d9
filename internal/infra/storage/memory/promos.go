package memory

import (
	"context"
	"sort"
	"sync"

	domainpromo "bakeshop/internal/domain/promo"
)

type PromoRepository struct {
	mu     sync.Mutex
	promos map[string]*domainpromo.Promo
}

func NewPromoRepository() *PromoRepository {
	return &PromoRepository{promos: make(map[string]*domainpromo.Promo)}
}

func (r *PromoRepository) ByCode(ctx context.Context, code string) (*domainpromo.Promo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promos[code]
	if !ok {
		return nil, domainpromo.ErrPromoNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *PromoRepository) Save(ctx context.Context, p *domainpromo.Promo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *p
	r.promos[p.Code] = &copy
	return nil
}

func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.promos[code]; !ok {
		return domainpromo.ErrPromoNotFound
	}
	delete(r.promos, code)
	return nil
}

func (r *PromoRepository) List(ctx context.Context) ([]*domainpromo.Promo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domainpromo.Promo, 0, len(r.promos))
	for _, p := range r.promos {
		copy := *p
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Redeem bumps the redemption counter under the lock so the limit check
// and the increment cannot interleave.
func (r *PromoRepository) Redeem(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promos[code]
	if !ok {
		return domainpromo.ErrPromoNotFound
	}
	if !p.Active {
		return domainpromo.ErrPromoInactive
	}
	if p.MaxRedemptions > 0 && p.Redemptions >= p.MaxRedemptions {
		return domainpromo.ErrPromoExhausted
	}
	p.Redemptions++
	return nil
}
