package memory

import (
	"context"
	"sort"
	"sync"

	domaincatalog "bakeshop/internal/domain/catalog"
)

type ProductRepository struct {
	mu    sync.RWMutex
	items map[domaincatalog.ProductID]*domaincatalog.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[domaincatalog.ProductID]*domaincatalog.Product)}
}

func (r *ProductRepository) ByID(ctx context.Context, id domaincatalog.ProductID) (*domaincatalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domaincatalog.ErrProductNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *ProductRepository) Save(ctx context.Context, p *domaincatalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *p
	r.items[p.ID] = &copy
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter domaincatalog.ListFilter) ([]*domaincatalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domaincatalog.Product
	for _, p := range r.items {
		if filter.OnlyActive && p.State != domaincatalog.ProductActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		copy := *p
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
