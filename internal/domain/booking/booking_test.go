package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakeshop/internal/domain/calendar"
)

func validParams() CreateParams {
	return CreateParams{
		ID:          BookingID("b-1"),
		OrderNumber: "CK-20251224-AB12",
		Day:         calendar.MustDay(2025, time.December, 24),
		Customer:    CustomerInfo{Name: "Ada", Email: "ada@example.com"},
		Details:     OrderDetails{Flavor: "chocolate", Size: "8-inch", TotalCents: 4500},
		CreatedAt:   time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	b, err := New(validParams())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.True(t, b.Active())
	assert.Equal(t, "2025-12-24", b.Day.String())

	p := validParams()
	p.Day = calendar.Day{}
	_, err = New(p)
	assert.ErrorIs(t, err, ErrDayRequired)

	p = validParams()
	p.Customer.Email = "  "
	_, err = New(p)
	assert.ErrorIs(t, err, ErrCustomerRequired)
}

func TestStatusTransitions(t *testing.T) {
	now := time.Now()

	t.Run("pending confirms once", func(t *testing.T) {
		b, _ := New(validParams())
		require.NoError(t, b.Confirm(now))
		assert.Equal(t, StatusConfirmed, b.Status)
		assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
	})

	t.Run("pending and confirmed can cancel", func(t *testing.T) {
		b, _ := New(validParams())
		require.NoError(t, b.Cancel(now))
		assert.False(t, b.Active())

		b, _ = New(validParams())
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.Cancel(now))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b, _ := New(validParams())
		require.NoError(t, b.Cancel(now))
		assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
		assert.ErrorIs(t, b.Cancel(now), ErrInvalidState)
		assert.ErrorIs(t, b.Reschedule(calendar.MustDay(2025, time.December, 26), now), ErrInvalidState)
	})
}

func TestReschedule(t *testing.T) {
	b, _ := New(validParams())
	target := calendar.MustDay(2025, time.December, 27)
	require.NoError(t, b.Reschedule(target, time.Now()))
	assert.Equal(t, target, b.Day)
	assert.ErrorIs(t, b.Reschedule(calendar.Day{}, time.Now()), ErrDayRequired)
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)
}
