package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakeshop/internal/domain/calendar"
	domainpromo "bakeshop/internal/domain/promo"
)

type PromoRepository struct {
	col *mongo.Collection
}

func NewPromoRepository(db *mongo.Database) *PromoRepository {
	return &PromoRepository{col: db.Collection("promos")}
}

type promoDocument struct {
	Code           string `bson:"_id"`
	Kind           string `bson:"kind"`
	PercentOff     int    `bson:"percent_off,omitempty"`
	AmountOffCents int64  `bson:"amount_off_cents,omitempty"`
	ExpiresOn      string `bson:"expires_on,omitempty"`
	MaxRedemptions int    `bson:"max_redemptions"`
	Redemptions    int    `bson:"redemptions"`
	Active         bool   `bson:"active"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func (r *PromoRepository) ByCode(ctx context.Context, code string) (*domainpromo.Promo, error) {
	var doc promoDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": code}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpromo.ErrPromoNotFound
		}
		return nil, fmt.Errorf("mongo: load promo: %w", err)
	}
	return doc.toDomain()
}

func (r *PromoRepository) Save(ctx context.Context, p *domainpromo.Promo) error {
	doc := newPromoDocument(p)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.Code}, doc, opts); err != nil {
		return fmt.Errorf("mongo: save promo: %w", err)
	}
	return nil
}

func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": code})
	if err != nil {
		return fmt.Errorf("mongo: delete promo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainpromo.ErrPromoNotFound
	}
	return nil
}

func (r *PromoRepository) List(ctx context.Context) ([]*domainpromo.Promo, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list promos: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domainpromo.Promo
	for cursor.Next(ctx) {
		var doc promoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode promo: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: list promos: %w", err)
	}
	return out, nil
}

// Redeem bumps the counter only while it is under the limit; the guard
// lives in the filter so the check and the increment are one atomic step.
func (r *PromoRepository) Redeem(ctx context.Context, code string) error {
	filter := bson.M{
		"_id":    code,
		"active": true,
		"$or": bson.A{
			bson.M{"max_redemptions": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$redemptions", "$max_redemptions"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"redemptions": 1},
		"$set": bson.M{"updated_at": time.Now().UTC().UnixMilli()},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongo: redeem promo: %w", err)
	}
	if res.MatchedCount == 0 {
		// distinguish a missing/inactive code from an exhausted one
		p, err := r.ByCode(ctx, code)
		if err != nil {
			return err
		}
		if !p.Active {
			return domainpromo.ErrPromoInactive
		}
		return domainpromo.ErrPromoExhausted
	}
	return nil
}

func newPromoDocument(p *domainpromo.Promo) promoDocument {
	doc := promoDocument{
		Code:           p.Code,
		Kind:           string(p.Kind),
		PercentOff:     p.PercentOff,
		AmountOffCents: p.AmountOffCents,
		MaxRedemptions: p.MaxRedemptions,
		Redemptions:    p.Redemptions,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt.UnixMilli(),
		UpdatedAt:      p.UpdatedAt.UnixMilli(),
	}
	if !p.ExpiresOn.IsZero() {
		doc.ExpiresOn = p.ExpiresOn.String()
	}
	return doc
}

func (d promoDocument) toDomain() (*domainpromo.Promo, error) {
	p := &domainpromo.Promo{
		Code:           d.Code,
		Kind:           domainpromo.Kind(d.Kind),
		PercentOff:     d.PercentOff,
		AmountOffCents: d.AmountOffCents,
		MaxRedemptions: d.MaxRedemptions,
		Redemptions:    d.Redemptions,
		Active:         d.Active,
		CreatedAt:      time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:      time.UnixMilli(d.UpdatedAt).UTC(),
	}
	if d.ExpiresOn != "" {
		day, err := calendar.ParseDay(d.ExpiresOn)
		if err != nil {
			return nil, fmt.Errorf("mongo: corrupt promo expiry %q: %w", d.ExpiresOn, err)
		}
		p.ExpiresOn = day
	}
	return p, nil
}
