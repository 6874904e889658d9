package availability

import (
	"context"
	"errors"
	"time"

	"bakeshop/internal/domain/calendar"
)

var (
	ErrBlockNotFound = errors.New("availability: blocked date not found")
)

// DefaultReason is used when the admin blocks a day without giving one.
const DefaultReason = "Closed"

// BlockedDate is an admin-declared exception for a single calendar day.
// A nil or zero Capacity closes the day entirely; a positive Capacity
// overrides the shop's default bookings-per-day limit. At most one record
// exists per day.
type BlockedDate struct {
	Day       calendar.Day
	Reason    string
	Capacity  *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveCapacity resolves the override. Capacity 0 and no capacity are
// deliberately the same thing: a closed day.
func (b BlockedDate) EffectiveCapacity() int {
	if b.Capacity == nil || *b.Capacity <= 0 {
		return 0
	}
	return *b.Capacity
}

// Closed reports whether the block shuts the day completely.
func (b BlockedDate) Closed() bool {
	return b.EffectiveCapacity() == 0
}

// DayAvailability is what the storefront calendar and the order-creation
// path both consume.
type DayAvailability struct {
	Day       calendar.Day `json:"date"`
	Available bool         `json:"available"`
	Remaining int          `json:"remaining"`
	Reason    string       `json:"reason,omitempty"`
}

// Resolve combines the block override (nil when the day is open), the count
// of active bookings and the configured default capacity into the day's
// availability. Single-day checks and range scans both go through here so
// the two paths cannot drift apart.
func Resolve(day calendar.Day, block *BlockedDate, activeBookings, defaultCapacity int) DayAvailability {
	capacity := defaultCapacity
	reason := ""
	if block != nil {
		capacity = block.EffectiveCapacity()
		reason = block.Reason
	}
	remaining := capacity - activeBookings
	if remaining < 0 {
		remaining = 0
	}
	return DayAvailability{
		Day:       day,
		Available: remaining > 0,
		Remaining: remaining,
		Reason:    reason,
	}
}

// BlockRepository is the blocked-date store. Upsert overwrites an existing
// record for the same day; re-blocking a day is not an error.
type BlockRepository interface {
	Upsert(ctx context.Context, block BlockedDate) error
	Remove(ctx context.Context, day calendar.Day) error
	ByDay(ctx context.Context, day calendar.Day) (*BlockedDate, error)
	InRange(ctx context.Context, start, end calendar.Day) ([]BlockedDate, error)
}
