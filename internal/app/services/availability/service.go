package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainavail "bakeshop/internal/domain/availability"
	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
)

// Service resolves per-day availability by combining admin blocks with the
// live booking count, and owns the blocked-date mutations behind the admin
// dashboard. DefaultCapacity is injected so deployments (and tests) can
// vary the shop's daily order limit without touching code.
type Service struct {
	Blocks          domainavail.BlockRepository
	Bookings        domainbooking.Repository
	DefaultCapacity int
	Logger          *slog.Logger
}

// CheckDay answers "can a new order land on this day, and how many slots
// are left".
func (s *Service) CheckDay(ctx context.Context, day calendar.Day) (domainavail.DayAvailability, error) {
	block, err := s.blockFor(ctx, day)
	if err != nil {
		return domainavail.DayAvailability{}, err
	}
	active, err := s.Bookings.CountActive(ctx, day)
	if err != nil {
		return domainavail.DayAvailability{}, fmt.Errorf("count active bookings: %w", err)
	}
	return domainavail.Resolve(day, block, active, s.DefaultCapacity), nil
}

// RangeResult is the calendar payload: one tuple per day plus the raw
// block records so the dashboard can show reasons and overrides.
type RangeResult struct {
	Days   []domainavail.DayAvailability
	Blocks []domainavail.BlockedDate
}

// Range computes availability for every day in [start, end] inclusive with
// two store queries, bucketing locally by day. Day keys use the same
// normalization as CheckDay, so the batch and single-day answers agree.
func (s *Service) Range(ctx context.Context, start, end calendar.Day) (RangeResult, error) {
	days, err := calendar.Range(start, end)
	if err != nil {
		return RangeResult{}, err
	}
	blocks, err := s.Blocks.InRange(ctx, start, end)
	if err != nil {
		return RangeResult{}, fmt.Errorf("load blocked dates: %w", err)
	}
	active, err := s.Bookings.ActiveInRange(ctx, start, end)
	if err != nil {
		return RangeResult{}, fmt.Errorf("load active bookings: %w", err)
	}

	blockByDay := make(map[calendar.Day]*domainavail.BlockedDate, len(blocks))
	for i := range blocks {
		blockByDay[blocks[i].Day] = &blocks[i]
	}
	countByDay := make(map[calendar.Day]int, len(active))
	for _, b := range active {
		countByDay[b.Day]++
	}

	result := RangeResult{
		Days:   make([]domainavail.DayAvailability, 0, len(days)),
		Blocks: blocks,
	}
	for _, day := range days {
		result.Days = append(result.Days, domainavail.Resolve(day, blockByDay[day], countByDay[day], s.DefaultCapacity))
	}
	return result, nil
}

// EffectiveCapacity is what the booking-creation path reserves against.
func (s *Service) EffectiveCapacity(ctx context.Context, day calendar.Day) (capacity int, reason string, err error) {
	block, err := s.blockFor(ctx, day)
	if err != nil {
		return 0, "", err
	}
	if block == nil {
		return s.DefaultCapacity, "", nil
	}
	return block.EffectiveCapacity(), block.Reason, nil
}

type BlockParams struct {
	Day      calendar.Day
	Reason   string
	Capacity *int
}

// Block upserts the day's exception record. Re-blocking an already blocked
// day overwrites it; the dashboard treats the form as "set", not "add".
func (s *Service) Block(ctx context.Context, params BlockParams) (domainavail.BlockedDate, error) {
	reason := params.Reason
	if reason == "" {
		reason = domainavail.DefaultReason
	}
	now := time.Now().UTC()
	block := domainavail.BlockedDate{
		Day:       params.Day,
		Reason:    reason,
		Capacity:  params.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Blocks.Upsert(ctx, block); err != nil {
		return domainavail.BlockedDate{}, fmt.Errorf("upsert blocked date: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("day blocked", "day", params.Day, "reason", reason, "capacity_override", params.Capacity != nil)
	}
	return block, nil
}

// Unblock returns the day to default availability. Removing a day that was
// never blocked surfaces ErrBlockNotFound with no state change.
func (s *Service) Unblock(ctx context.Context, day calendar.Day) error {
	if err := s.Blocks.Remove(ctx, day); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("day unblocked", "day", day)
	}
	return nil
}

func (s *Service) blockFor(ctx context.Context, day calendar.Day) (*domainavail.BlockedDate, error) {
	block, err := s.Blocks.ByDay(ctx, day)
	if err != nil {
		if errors.Is(err, domainavail.ErrBlockNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load blocked date: %w", err)
	}
	return block, nil
}
