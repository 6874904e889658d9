package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domaincatalog "bakeshop/internal/domain/catalog"
)

// Uploader is the slice of the object-storage client the catalog needs.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

var ErrUploadsDisabled = errors.New("catalog: photo uploads are not configured")

type Service struct {
	Products domaincatalog.Repository
	Photos   Uploader
	Logger   *slog.Logger
}

type CreateParams struct {
	Name        string
	Description string
	Category    domaincatalog.Category
	PriceCents  int64
	ImageURL    string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domaincatalog.Product, error) {
	p, err := domaincatalog.NewProduct(domaincatalog.CreateParams{
		ID:          domaincatalog.ProductID(uuid.NewString()),
		Name:        params.Name,
		Description: params.Description,
		Category:    params.Category,
		PriceCents:  params.PriceCents,
		ImageURL:    params.ImageURL,
		Now:         time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("product created", "product_id", p.ID, "category", p.Category)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id domaincatalog.ProductID, name, description string, priceCents int64) (*domaincatalog.Product, error) {
	p, err := s.Products.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(name, description, priceCents, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Archive(ctx context.Context, id domaincatalog.ProductID) error {
	p, err := s.Products.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Archive(time.Now()); err != nil {
		return err
	}
	return s.Products.Save(ctx, p)
}

func (s *Service) Get(ctx context.Context, id domaincatalog.ProductID) (*domaincatalog.Product, error) {
	return s.Products.ByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domaincatalog.ListFilter) ([]*domaincatalog.Product, error) {
	return s.Products.List(ctx, filter)
}

// AttachPhoto uploads the image to object storage and points the product
// at the public URL.
func (s *Service) AttachPhoto(ctx context.Context, id domaincatalog.ProductID, reader io.Reader, contentType string) (*domaincatalog.Product, error) {
	if s.Photos == nil {
		return nil, ErrUploadsDisabled
	}
	p, err := s.Products.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("products/%s/%s%s", p.ID, uuid.NewString(), extensionFor(contentType))
	url, err := s.Photos.Upload(ctx, key, reader, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload product photo: %w", err)
	}
	p.SetImage(url, time.Now())
	if err := s.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	default:
		return ""
	}
}
