package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "bakeshop/internal/domain/catalog"
)

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

type productDocument struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	Category    string `bson:"category"`
	PriceCents  int64  `bson:"price_cents"`
	ImageURL    string `bson:"image_url,omitempty"`
	State       string `bson:"state"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (r *ProductRepository) ByID(ctx context.Context, id domaincatalog.ProductID) (*domaincatalog.Product, error) {
	var doc productDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("mongo: load product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) Save(ctx context.Context, p *domaincatalog.Product) error {
	doc := productDocument{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageURL,
		State:       string(p.State),
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("mongo: save product: %w", err)
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter domaincatalog.ListFilter) ([]*domaincatalog.Product, error) {
	query := bson.M{}
	if filter.OnlyActive {
		query["state"] = string(domaincatalog.ProductActive)
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list products: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domaincatalog.Product
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode product: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: list products: %w", err)
	}
	return out, nil
}

func (d productDocument) toDomain() *domaincatalog.Product {
	return &domaincatalog.Product{
		ID:          domaincatalog.ProductID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Category:    domaincatalog.Category(d.Category),
		PriceCents:  d.PriceCents,
		ImageURL:    d.ImageURL,
		State:       domaincatalog.ProductState(d.State),
		CreatedAt:   time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(d.UpdatedAt).UTC(),
	}
}
