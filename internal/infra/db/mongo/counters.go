package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
)

// SlotCounter holds one counter document per day and is the serialization
// point for capacity. Reserve is a single guarded upsert:
//
//   - day has free slots  -> filter matches, $inc wins the slot
//   - day is full         -> filter misses, the upsert attempt collides
//     with the existing _id and fails with a duplicate key, which is the
//     "capacity exceeded" signal
//   - day has no counter  -> filter misses, the upsert inserts {active: 1}
//
// Two racing checkouts for the last slot therefore cannot both succeed;
// the document-level atomicity of UpdateOne decides the winner.
type SlotCounter struct {
	col *mongo.Collection
}

func NewSlotCounter(db *mongo.Database) *SlotCounter {
	return &SlotCounter{col: db.Collection("day_counters")}
}

func (c *SlotCounter) Reserve(ctx context.Context, day calendar.Day, capacity int) error {
	if capacity <= 0 {
		return domainbooking.ErrCapacityExceeded
	}
	filter := bson.M{"_id": day.String(), "active": bson.M{"$lt": capacity}}
	update := bson.M{"$inc": bson.M{"active": 1}}
	res, err := c.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrCapacityExceeded
		}
		return fmt.Errorf("mongo: reserve slot: %w", err)
	}
	if res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrCapacityExceeded
	}
	return nil
}

func (c *SlotCounter) Release(ctx context.Context, day calendar.Day) error {
	filter := bson.M{"_id": day.String(), "active": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"active": -1}}
	if _, err := c.col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("mongo: release slot: %w", err)
	}
	return nil
}
