package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

var activeStatuses = bson.A{string(domainbooking.StatusPending), string(domainbooking.StatusConfirmed)}

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

type bookingDocument struct {
	ID          string           `bson:"_id"`
	OrderNumber string           `bson:"order_number"`
	Day         string           `bson:"day"`
	Customer    customerDocument `bson:"customer"`
	Details     detailsDocument  `bson:"details"`
	Status      string           `bson:"status"`
	CreatedAt   int64            `bson:"created_at"`
	UpdatedAt   int64            `bson:"updated_at"`
	Version     int64            `bson:"version"`
}

type customerDocument struct {
	Name  string `bson:"name"`
	Email string `bson:"email"`
	Phone string `bson:"phone,omitempty"`
}

type detailsDocument struct {
	Flavor        string `bson:"flavor,omitempty"`
	Size          string `bson:"size,omitempty"`
	Tiers         int    `bson:"tiers,omitempty"`
	Inscription   string `bson:"inscription,omitempty"`
	Notes         string `bson:"notes,omitempty"`
	SubtotalCents int64  `bson:"subtotal_cents"`
	DiscountCents int64  `bson:"discount_cents"`
	TotalCents    int64  `bson:"total_cents"`
	PromoCode     string `bson:"promo_code,omitempty"`
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("mongo: load booking: %w", err)
	}
	return doc.toDomain()
}

// Save uses optimistic versioning: the filter matches the version the
// caller loaded, so a lost-update writes nothing and fails loudly.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return fmt.Errorf("mongo: save booking: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) CountActive(ctx context.Context, day calendar.Day) (int, error) {
	filter := bson.M{"day": day.String(), "status": bson.M{"$in": activeStatuses}}
	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("mongo: count active bookings: %w", err)
	}
	return int(count), nil
}

func (r *BookingRepository) ActiveInRange(ctx context.Context, start, end calendar.Day) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"day":    bson.M{"$gte": start.String(), "$lte": end.String()},
		"status": bson.M{"$in": activeStatuses},
	}
	return r.find(ctx, filter, 0)
}

func (r *BookingRepository) List(ctx context.Context, f domainbooking.ListFilter) ([]*domainbooking.Booking, error) {
	filter := bson.M{}
	if f.Day != nil {
		filter["day"] = f.Day.String()
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	return r.find(ctx, filter, f.Limit)
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M, limit int) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode booking: %w", err)
		}
		b, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: find bookings: %w", err)
	}
	return out, nil
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:          string(b.ID),
		OrderNumber: b.OrderNumber,
		Day:         b.Day.String(),
		Customer: customerDocument{
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
			Phone: b.Customer.Phone,
		},
		Details: detailsDocument{
			Flavor:        b.Details.Flavor,
			Size:          b.Details.Size,
			Tiers:         b.Details.Tiers,
			Inscription:   b.Details.Inscription,
			Notes:         b.Details.Notes,
			SubtotalCents: b.Details.SubtotalCents,
			DiscountCents: b.Details.DiscountCents,
			TotalCents:    b.Details.TotalCents,
			PromoCode:     b.Details.PromoCode,
		},
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bookingDocument) toDomain() (*domainbooking.Booking, error) {
	day, err := calendar.ParseDay(d.Day)
	if err != nil {
		return nil, fmt.Errorf("mongo: corrupt booking day %q: %w", d.Day, err)
	}
	status, err := domainbooking.ParseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("mongo: corrupt booking status: %w", err)
	}
	return &domainbooking.Booking{
		ID:          domainbooking.BookingID(d.ID),
		OrderNumber: d.OrderNumber,
		Day:         day,
		Customer: domainbooking.CustomerInfo{
			Name:  d.Customer.Name,
			Email: d.Customer.Email,
			Phone: d.Customer.Phone,
		},
		Details: domainbooking.OrderDetails{
			Flavor:        d.Details.Flavor,
			Size:          d.Details.Size,
			Tiers:         d.Details.Tiers,
			Inscription:   d.Details.Inscription,
			Notes:         d.Details.Notes,
			SubtotalCents: d.Details.SubtotalCents,
			DiscountCents: d.Details.DiscountCents,
			TotalCents:    d.Details.TotalCents,
			PromoCode:     d.Details.PromoCode,
		},
		Status:    status,
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(d.UpdatedAt).UTC(),
		Version:   d.Version,
	}, nil
}
