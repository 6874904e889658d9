package catalog

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrProductNotFound = errors.New("catalog: product not found")
	ErrNameRequired    = errors.New("catalog: product name is required")
	ErrInvalidPrice    = errors.New("catalog: price must be positive")
	ErrInvalidCategory = errors.New("catalog: unknown category")
	ErrNotActive       = errors.New("catalog: product is not active")
)

type ProductID string

type Category string

const (
	CategoryCake  Category = "cake"
	CategoryMerch Category = "merch"
)

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryCake:
		return CategoryCake, nil
	case CategoryMerch:
		return CategoryMerch, nil
	}
	return "", ErrInvalidCategory
}

type ProductState string

const (
	ProductActive   ProductState = "active"
	ProductArchived ProductState = "archived"
)

// Product is a storefront item: a cake design on the bakery side or a
// merch item on the shop side.
type Product struct {
	ID          ProductID
	Name        string
	Description string
	Category    Category
	PriceCents  int64
	ImageURL    string
	State       ProductState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID          ProductID
	Name        string
	Description string
	Category    Category
	PriceCents  int64
	ImageURL    string
	Now         time.Time
}

func NewProduct(params CreateParams) (*Product, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if params.Category != CategoryCake && params.Category != CategoryMerch {
		return nil, ErrInvalidCategory
	}
	now := params.Now.UTC()
	return &Product{
		ID:          params.ID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Category:    params.Category,
		PriceCents:  params.PriceCents,
		ImageURL:    params.ImageURL,
		State:       ProductActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Product) Update(name, description string, priceCents int64, now time.Time) error {
	if name = strings.TrimSpace(name); name == "" {
		return ErrNameRequired
	}
	if priceCents <= 0 {
		return ErrInvalidPrice
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.PriceCents = priceCents
	p.UpdatedAt = now.UTC()
	return nil
}

func (p *Product) SetImage(url string, now time.Time) {
	p.ImageURL = url
	p.UpdatedAt = now.UTC()
}

func (p *Product) Archive(now time.Time) error {
	if p.State != ProductActive {
		return ErrNotActive
	}
	p.State = ProductArchived
	p.UpdatedAt = now.UTC()
	return nil
}

type ListFilter struct {
	Category   Category
	OnlyActive bool
}

type Repository interface {
	ByID(ctx context.Context, id ProductID) (*Product, error)
	Save(ctx context.Context, p *Product) error
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
}
