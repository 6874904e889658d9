package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	availabilityapp "bakeshop/internal/app/services/availability"
	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
	domainpromo "bakeshop/internal/domain/promo"
)

// EventSink is the slice of the Kafka producer the service needs. A nil
// sink disables publishing; local dev runs without a broker.
type EventSink interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

type domainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Service owns the order lifecycle. Capacity is enforced at creation and
// reschedule time through an atomic per-day slot reservation, so two
// simultaneous checkouts racing for the last slot cannot both win.
type Service struct {
	Bookings     domainbooking.Repository
	Slots        domainbooking.SlotReserver
	Availability *availabilityapp.Service
	Promos       domainpromo.Repository
	Events       EventSink
	Topic        string
	Logger       *slog.Logger
}

type CreateParams struct {
	Day      calendar.Day
	Customer domainbooking.CustomerInfo
	Details  domainbooking.OrderDetails
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	capacity, reason, err := s.Availability.EffectiveCapacity(ctx, params.Day)
	if err != nil {
		return nil, err
	}
	if capacity == 0 {
		if reason == "" {
			reason = "no capacity"
		}
		return nil, fmt.Errorf("%w: %s", domainbooking.ErrDayClosed, reason)
	}
	if err := s.Slots.Reserve(ctx, params.Day, capacity); err != nil {
		return nil, err
	}

	details := params.Details
	if details.PromoCode != "" {
		discount, err := s.applyPromo(ctx, details.PromoCode, details.SubtotalCents)
		if err != nil {
			s.releaseSlot(ctx, params.Day)
			return nil, err
		}
		details.DiscountCents = discount
	}
	details.TotalCents = details.SubtotalCents - details.DiscountCents
	if details.TotalCents < 0 {
		details.TotalCents = 0
	}

	now := time.Now()
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(uuid.NewString()),
		OrderNumber: newOrderNumber(params.Day),
		Day:         params.Day,
		Customer:    params.Customer,
		Details:     details,
		CreatedAt:   now,
	})
	if err != nil {
		s.releaseSlot(ctx, params.Day)
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		s.releaseSlot(ctx, params.Day)
		return nil, fmt.Errorf("save booking: %w", err)
	}

	s.publish(ctx, domainbooking.OrderCreated{
		BookingID:   b.ID,
		OrderNumber: b.OrderNumber,
		Day:         b.Day,
		TotalCents:  b.Details.TotalCents,
		At:          now.UTC(),
	})
	if s.Logger != nil {
		s.Logger.Info("order created", "order", b.OrderNumber, "day", b.Day, "total_cents", b.Details.TotalCents)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	return s.Bookings.ByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domainbooking.ListFilter) ([]*domainbooking.Booking, error) {
	return s.Bookings.List(ctx, filter)
}

func (s *Service) Confirm(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := b.Confirm(now); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	s.publish(ctx, domainbooking.OrderConfirmed{BookingID: b.ID, Day: b.Day, At: now.UTC()})
	return b, nil
}

// Cancel frees the day's slot; a cancelled order no longer counts against
// capacity.
func (s *Service) Cancel(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := b.Cancel(now); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	s.releaseSlot(ctx, b.Day)
	s.publish(ctx, domainbooking.OrderCancelled{BookingID: b.ID, Day: b.Day, At: now.UTC()})
	return b, nil
}

// Reschedule re-enters capacity accounting for both days: the new day's
// slot is reserved first, and the old day's slot is released only after
// the move is persisted.
func (s *Service) Reschedule(ctx context.Context, id domainbooking.BookingID, newDay calendar.Day) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldDay := b.Day
	if oldDay.Equal(newDay) {
		return b, nil
	}
	capacity, reason, err := s.Availability.EffectiveCapacity(ctx, newDay)
	if err != nil {
		return nil, err
	}
	if capacity == 0 {
		if reason == "" {
			reason = "no capacity"
		}
		return nil, fmt.Errorf("%w: %s", domainbooking.ErrDayClosed, reason)
	}
	if err := s.Slots.Reserve(ctx, newDay, capacity); err != nil {
		return nil, err
	}
	now := time.Now()
	if err := b.Reschedule(newDay, now); err != nil {
		s.releaseSlot(ctx, newDay)
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		s.releaseSlot(ctx, newDay)
		return nil, fmt.Errorf("save booking: %w", err)
	}
	s.releaseSlot(ctx, oldDay)
	s.publish(ctx, domainbooking.OrderRescheduled{BookingID: b.ID, From: oldDay, To: newDay, At: now.UTC()})
	if s.Logger != nil {
		s.Logger.Info("order rescheduled", "order", b.OrderNumber, "from", oldDay, "to", newDay)
	}
	return b, nil
}

func (s *Service) applyPromo(ctx context.Context, code string, subtotalCents int64) (int64, error) {
	if s.Promos == nil {
		return 0, domainpromo.ErrPromoNotFound
	}
	code = domainpromo.NormalizeCode(code)
	p, err := s.Promos.ByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if err := p.Usable(calendar.Today(time.UTC)); err != nil {
		return 0, err
	}
	if err := s.Promos.Redeem(ctx, code); err != nil {
		return 0, err
	}
	return p.Discount(subtotalCents), nil
}

func (s *Service) releaseSlot(ctx context.Context, day calendar.Day) {
	if err := s.Slots.Release(ctx, day); err != nil && s.Logger != nil {
		s.Logger.Error("slot release failed", "day", day, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, ev domainEvent) {
	if s.Events == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("event encode failed", "event", ev.EventName(), "error", err)
		}
		return
	}
	topic := s.Topic
	if topic == "" {
		topic = "bakeshop.orders"
	}
	headers := map[string]string{"event": ev.EventName()}
	if err := s.Events.Publish(ctx, topic, ev.AggregateID(), payload, headers); err != nil && s.Logger != nil {
		s.Logger.Error("event publish failed", "event", ev.EventName(), "error", err)
	}
}

func newOrderNumber(day calendar.Day) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("CK-%s-%s", day.Time().Format("20060102"), suffix)
}
