package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityapp "bakeshop/internal/app/services/availability"
	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
	domainpromo "bakeshop/internal/domain/promo"
	"bakeshop/internal/infra/storage/memory"
)

type fixture struct {
	svc      *Service
	avail    *availabilityapp.Service
	blocks   *memory.BlockRepository
	bookings *memory.BookingRepository
	slots    *memory.SlotCounter
	promos   *memory.PromoRepository
}

func newFixture(defaultCapacity int) fixture {
	blocks := memory.NewBlockRepository()
	bookings := memory.NewBookingRepository()
	slots := memory.NewSlotCounter()
	promos := memory.NewPromoRepository()
	avail := &availabilityapp.Service{Blocks: blocks, Bookings: bookings, DefaultCapacity: defaultCapacity}
	return fixture{
		svc: &Service{
			Bookings:     bookings,
			Slots:        slots,
			Availability: avail,
			Promos:       promos,
		},
		avail:    avail,
		blocks:   blocks,
		bookings: bookings,
		slots:    slots,
		promos:   promos,
	}
}

func createParams(day calendar.Day) CreateParams {
	return CreateParams{
		Day:      day,
		Customer: domainbooking.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
		Details:  domainbooking.OrderDetails{Flavor: "lemon", Size: "6-inch", SubtotalCents: 4000},
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(5)
	day := calendar.MustDay(2025, time.December, 24)

	b, err := f.svc.Create(context.Background(), createParams(day))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, b.Status)
	assert.NotEmpty(t, b.OrderNumber)
	assert.Contains(t, b.OrderNumber, "20251224")
	assert.Equal(t, int64(4000), b.Details.TotalCents)
	assert.Equal(t, 1, f.slots.Active(day))
}

func TestCreate_RejectsClosedDay(t *testing.T) {
	f := newFixture(5)
	day := calendar.MustDay(2025, time.December, 25)
	_, err := f.avail.Block(context.Background(), availabilityapp.BlockParams{Day: day, Reason: "Christmas"})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), createParams(day))
	assert.ErrorIs(t, err, domainbooking.ErrDayClosed)
	assert.ErrorContains(t, err, "Christmas")
	assert.Equal(t, 0, f.slots.Active(day))
}

func TestCreate_CapacityIsHardLimit(t *testing.T) {
	f := newFixture(2)
	day := calendar.MustDay(2025, time.July, 4)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, createParams(day))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, createParams(day))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, createParams(day))
	assert.ErrorIs(t, err, domainbooking.ErrCapacityExceeded)

	check, err := f.avail.CheckDay(ctx, day)
	require.NoError(t, err)
	assert.False(t, check.Available)
}

// Concurrent checkouts racing for the last slots must never overshoot the
// day's capacity. This is the regression test for the count-then-insert
// race the atomic reservation exists to close.
func TestCreate_ConcurrentCheckoutsCannotOvershoot(t *testing.T) {
	const capacity = 3
	const attempts = 20
	f := newFixture(capacity)
	day := calendar.MustDay(2025, time.June, 21)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), createParams(day))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domainbooking.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, capacity, succeeded)

	active, err := f.bookings.CountActive(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, capacity, active)
}

func TestCreate_AppliesPromo(t *testing.T) {
	f := newFixture(5)
	ctx := context.Background()
	p, err := domainpromo.New(domainpromo.CreateParams{Code: "TEN", Kind: domainpromo.KindPercent, PercentOff: 10, Now: time.Now()})
	require.NoError(t, err)
	require.NoError(t, f.promos.Save(ctx, p))

	params := createParams(calendar.MustDay(2025, time.August, 1))
	params.Details.PromoCode = "ten"
	b, err := f.svc.Create(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(400), b.Details.DiscountCents)
	assert.Equal(t, int64(3600), b.Details.TotalCents)

	stored, err := f.promos.ByCode(ctx, "TEN")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Redemptions)
}

func TestCreate_BadPromoReleasesSlot(t *testing.T) {
	f := newFixture(5)
	day := calendar.MustDay(2025, time.August, 2)
	params := createParams(day)
	params.Details.PromoCode = "NOPE"

	_, err := f.svc.Create(context.Background(), params)
	assert.ErrorIs(t, err, domainpromo.ErrPromoNotFound)
	assert.Equal(t, 0, f.slots.Active(day))
}

func TestCancel_FreesTheSlot(t *testing.T) {
	f := newFixture(1)
	day := calendar.MustDay(2025, time.September, 10)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, createParams(day))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, createParams(day))
	require.ErrorIs(t, err, domainbooking.ErrCapacityExceeded)

	cancelled, err := f.svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, f.slots.Active(day))

	// the freed slot is usable again
	_, err = f.svc.Create(ctx, createParams(day))
	assert.NoError(t, err)
}

func TestConfirm(t *testing.T) {
	f := newFixture(5)
	ctx := context.Background()
	b, err := f.svc.Create(ctx, createParams(calendar.MustDay(2025, time.September, 11)))
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusConfirmed, confirmed.Status)

	_, err = f.svc.Confirm(ctx, b.ID)
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)
}

func TestReschedule_MovesSlotBetweenDays(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	oldDay := calendar.MustDay(2025, time.October, 1)
	newDay := calendar.MustDay(2025, time.October, 2)

	b, err := f.svc.Create(ctx, createParams(oldDay))
	require.NoError(t, err)

	moved, err := f.svc.Reschedule(ctx, b.ID, newDay)
	require.NoError(t, err)
	assert.Equal(t, newDay, moved.Day)
	assert.Equal(t, 0, f.slots.Active(oldDay))
	assert.Equal(t, 1, f.slots.Active(newDay))

	// old day opened back up, new day is now full
	_, err = f.svc.Create(ctx, createParams(oldDay))
	assert.NoError(t, err)
	_, err = f.svc.Create(ctx, createParams(newDay))
	assert.ErrorIs(t, err, domainbooking.ErrCapacityExceeded)
}

func TestReschedule_FullTargetDayKeepsOriginal(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	oldDay := calendar.MustDay(2025, time.October, 3)
	fullDay := calendar.MustDay(2025, time.October, 4)

	_, err := f.svc.Create(ctx, createParams(fullDay))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, createParams(oldDay))
	require.NoError(t, err)

	_, err = f.svc.Reschedule(ctx, b.ID, fullDay)
	assert.ErrorIs(t, err, domainbooking.ErrCapacityExceeded)

	kept, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, oldDay, kept.Day)
	assert.Equal(t, 1, f.slots.Active(oldDay))
}
