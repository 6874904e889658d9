package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
)

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	copy := *b
	return &copy, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	copy := *b
	r.items[b.ID] = &copy
	return nil
}

func (r *BookingRepository) CountActive(ctx context.Context, day calendar.Day) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, b := range r.items {
		if b.Day.Equal(day) && b.Active() {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) ActiveInRange(ctx context.Context, start, end calendar.Day) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if !b.Active() || b.Day.Before(start) || b.Day.After(end) {
			continue
		}
		copy := *b
		out = append(out, &copy)
	}
	sortByDay(out)
	return out, nil
}

func (r *BookingRepository) List(ctx context.Context, filter domainbooking.ListFilter) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if filter.Day != nil && !b.Day.Equal(*filter.Day) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		copy := *b
		out = append(out, &copy)
	}
	sortByDay(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func sortByDay(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Day.Equal(items[j].Day) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Day.Before(items[j].Day)
	})
}
