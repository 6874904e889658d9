package booking

import (
	"time"

	"bakeshop/internal/domain/calendar"
)

type OrderCreated struct {
	BookingID   BookingID
	OrderNumber string
	Day         calendar.Day
	TotalCents  int64
	At          time.Time
}

func (e OrderCreated) EventName() string     { return "order.created" }
func (e OrderCreated) AggregateID() string   { return string(e.BookingID) }
func (e OrderCreated) OccurredAt() time.Time { return e.At }

type OrderConfirmed struct {
	BookingID BookingID
	Day       calendar.Day
	At        time.Time
}

func (e OrderConfirmed) EventName() string     { return "order.confirmed" }
func (e OrderConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e OrderConfirmed) OccurredAt() time.Time { return e.At }

type OrderCancelled struct {
	BookingID BookingID
	Day       calendar.Day
	At        time.Time
}

func (e OrderCancelled) EventName() string     { return "order.cancelled" }
func (e OrderCancelled) AggregateID() string   { return string(e.BookingID) }
func (e OrderCancelled) OccurredAt() time.Time { return e.At }

type OrderRescheduled struct {
	BookingID BookingID
	From      calendar.Day
	To        calendar.Day
	At        time.Time
}

func (e OrderRescheduled) EventName() string     { return "order.rescheduled" }
func (e OrderRescheduled) AggregateID() string   { return string(e.BookingID) }
func (e OrderRescheduled) OccurredAt() time.Time { return e.At }
