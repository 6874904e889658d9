package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"bakeshop/internal/domain/calendar"
)

var (
	ErrInvalidState     = errors.New("booking: invalid status transition")
	ErrBookingNotFound  = errors.New("booking: not found")
	ErrCustomerRequired = errors.New("booking: customer name and email are required")
	ErrDayRequired      = errors.New("booking: order day is required")
	ErrCapacityExceeded = errors.New("booking: day capacity exceeded")
	ErrDayClosed        = errors.New("booking: day is closed for orders")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status coming off the wire.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", errors.New("booking: unknown status " + raw)
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// OrderDetails is the cake order payload. It is opaque to the capacity
// accounting; only Day and Status participate in availability.
type OrderDetails struct {
	Flavor      string
	Size        string
	Tiers       int
	Inscription string
	Notes       string
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	PromoCode     string
}

type Booking struct {
	ID          BookingID
	OrderNumber string
	Day         calendar.Day
	Customer    CustomerInfo
	Details     OrderDetails
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

type CreateParams struct {
	ID          BookingID
	OrderNumber string
	Day         calendar.Day
	Customer    CustomerInfo
	Details     OrderDetails
	CreatedAt   time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.Day.IsZero() {
		return nil, ErrDayRequired
	}
	if strings.TrimSpace(params.Customer.Name) == "" || strings.TrimSpace(params.Customer.Email) == "" {
		return nil, ErrCustomerRequired
	}
	now := params.CreatedAt.UTC()
	return &Booking{
		ID:          params.ID,
		OrderNumber: params.OrderNumber,
		Day:         params.Day,
		Customer:    params.Customer,
		Details:     params.Details,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	return nil
}

// Reschedule moves the order to a new day. Slot accounting for the old and
// new day is the caller's job; the aggregate only guards the status.
func (b *Booking) Reschedule(day calendar.Day, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrInvalidState
	}
	if day.IsZero() {
		return ErrDayRequired
	}
	b.Day = day
	b.UpdatedAt = now.UTC()
	return nil
}

// Active reports whether the booking counts against its day's capacity.
func (b *Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	CountActive(ctx context.Context, day calendar.Day) (int, error)
	ActiveInRange(ctx context.Context, start, end calendar.Day) ([]*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)
}

type ListFilter struct {
	Day    *calendar.Day
	Status Status
	Limit  int
}

// SlotReserver is the atomic per-day capacity guard. Reserve either takes a
// slot or fails with ErrCapacityExceeded; two concurrent reservations for
// the last slot can never both succeed.
type SlotReserver interface {
	Reserve(ctx context.Context, day calendar.Day, capacity int) error
	Release(ctx context.Context, day calendar.Day) error
}
