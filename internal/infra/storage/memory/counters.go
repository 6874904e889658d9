package memory

import (
	"context"
	"sync"

	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
)

// SlotCounter is the in-memory slot reserver. The single mutex makes the
// check-and-increment atomic, mirroring what the mongo implementation gets
// from a guarded upsert.
type SlotCounter struct {
	mu     sync.Mutex
	active map[calendar.Day]int
}

func NewSlotCounter() *SlotCounter {
	return &SlotCounter{active: make(map[calendar.Day]int)}
}

func (c *SlotCounter) Reserve(ctx context.Context, day calendar.Day, capacity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active[day] >= capacity {
		return domainbooking.ErrCapacityExceeded
	}
	c.active[day]++
	return nil
}

func (c *SlotCounter) Release(ctx context.Context, day calendar.Day) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active[day] > 0 {
		c.active[day]--
	}
	return nil
}

// Active is a test helper exposing the current reservation count.
func (c *SlotCounter) Active(day calendar.Day) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[day]
}
