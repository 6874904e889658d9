package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bakeshop/internal/domain/calendar"
)

func intPtr(v int) *int { return &v }

func TestBlockedDate_EffectiveCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity *int
		want     int
		closed   bool
	}{
		{name: "no capacity means closed", capacity: nil, want: 0, closed: true},
		{name: "zero capacity means closed", capacity: intPtr(0), want: 0, closed: true},
		{name: "negative capacity clamps to closed", capacity: intPtr(-3), want: 0, closed: true},
		{name: "positive capacity limits the day", capacity: intPtr(2), want: 2, closed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BlockedDate{Day: calendar.MustDay(2025, time.December, 25), Capacity: tt.capacity}
			assert.Equal(t, tt.want, b.EffectiveCapacity())
			assert.Equal(t, tt.closed, b.Closed())
		})
	}
}

func TestResolve(t *testing.T) {
	day := calendar.MustDay(2025, time.December, 24)

	t.Run("open day uses default capacity", func(t *testing.T) {
		got := Resolve(day, nil, 3, 5)
		assert.Equal(t, DayAvailability{Day: day, Available: true, Remaining: 2}, got)
	})

	t.Run("fully booked open day", func(t *testing.T) {
		got := Resolve(day, nil, 5, 5)
		assert.False(t, got.Available)
		assert.Equal(t, 0, got.Remaining)
	})

	t.Run("overbooked never goes negative", func(t *testing.T) {
		got := Resolve(day, nil, 7, 5)
		assert.Equal(t, 0, got.Remaining)
	})

	t.Run("closed day carries the reason", func(t *testing.T) {
		block := &BlockedDate{Day: day, Reason: "Christmas"}
		got := Resolve(day, block, 0, 5)
		assert.Equal(t, DayAvailability{Day: day, Available: false, Remaining: 0, Reason: "Christmas"}, got)
	})

	t.Run("capacity override replaces default", func(t *testing.T) {
		block := &BlockedDate{Day: day, Reason: "Short staffed", Capacity: intPtr(2)}
		got := Resolve(day, block, 2, 5)
		assert.False(t, got.Available)
		assert.Equal(t, 0, got.Remaining)

		got = Resolve(day, block, 1, 5)
		assert.True(t, got.Available)
		assert.Equal(t, 1, got.Remaining)
	})
}
