package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavail "bakeshop/internal/domain/availability"
	"bakeshop/internal/domain/calendar"
)

// BlockRepository keys blocked dates by the canonical day string, which
// makes the one-record-per-day invariant a primary-key property and lets
// range scans use plain string comparison.
type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{col: db.Collection("blocked_dates")}
}

type blockDocument struct {
	Day       string `bson:"_id"`
	Reason    string `bson:"reason"`
	Capacity  *int   `bson:"capacity,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *BlockRepository) Upsert(ctx context.Context, block domainavail.BlockedDate) error {
	doc := blockDocument{
		Day:       block.Day.String(),
		Reason:    block.Reason,
		Capacity:  block.Capacity,
		CreatedAt: block.CreatedAt.UnixMilli(),
		UpdatedAt: block.UpdatedAt.UnixMilli(),
	}
	update := bson.M{
		"$set": bson.M{
			"reason":     doc.Reason,
			"capacity":   doc.Capacity,
			"updated_at": doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": doc.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.Day}, update, opts); err != nil {
		return fmt.Errorf("mongo: upsert blocked date: %w", err)
	}
	return nil
}

func (r *BlockRepository) Remove(ctx context.Context, day calendar.Day) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": day.String()})
	if err != nil {
		return fmt.Errorf("mongo: delete blocked date: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainavail.ErrBlockNotFound
	}
	return nil
}

func (r *BlockRepository) ByDay(ctx context.Context, day calendar.Day) (*domainavail.BlockedDate, error) {
	var doc blockDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": day.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavail.ErrBlockNotFound
		}
		return nil, fmt.Errorf("mongo: load blocked date: %w", err)
	}
	return doc.toDomain()
}

func (r *BlockRepository) InRange(ctx context.Context, start, end calendar.Day) ([]domainavail.BlockedDate, error) {
	filter := bson.M{"_id": bson.M{"$gte": start.String(), "$lte": end.String()}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo: range blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domainavail.BlockedDate
	for cursor.Next(ctx) {
		var doc blockDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode blocked date: %w", err)
		}
		block, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *block)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: range blocked dates: %w", err)
	}
	return out, nil
}

func (d blockDocument) toDomain() (*domainavail.BlockedDate, error) {
	day, err := calendar.ParseDay(d.Day)
	if err != nil {
		return nil, fmt.Errorf("mongo: corrupt blocked date key %q: %w", d.Day, err)
	}
	return &domainavail.BlockedDate{
		Day:       day,
		Reason:    d.Reason,
		Capacity:  d.Capacity,
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(d.UpdatedAt).UTC(),
	}, nil
}
