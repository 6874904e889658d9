package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate  = errors.New("calendar: invalid date")
	ErrInvalidRange = errors.New("calendar: range end is before start")
)

// DayFormat is the canonical wire representation of a calendar day.
const DayFormat = "2006-01-02"

// Day is a calendar day with no time-of-day component. Availability
// accounting happens at this granularity only; instants never leak in.
// The zero value is "no day".
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay validates the triple against the real calendar.
func NewDay(year int, month time.Month, day int) (Day, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	if y != year || m != month || d != day {
		return Day{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return Day{year: year, month: month, day: day}, nil
}

// MustDay is for literals in tests and fixtures.
func MustDay(year int, month time.Month, day int) Day {
	d, err := NewDay(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDay accepts a bare YYYY-MM-DD date or an RFC3339 timestamp. For
// timestamps the wall-clock date of the input is used as written; the zone
// offset is ignored so that time-of-day can never shift the calendar day.
func ParseDay(value string) (Day, error) {
	if value == "" {
		return Day{}, fmt.Errorf("%w: empty input", ErrInvalidDate)
	}
	if t, err := time.Parse(DayFormat, value); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return FromTime(t), nil
	}
	return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// FromTime takes the wall-clock date of t in its own location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// Today returns the current day in the given location.
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(time.Now().In(loc))
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) Date() (year int, month time.Month, day int) {
	return d.year, d.month, d.day
}

// Time anchors the day at UTC midnight for APIs that need an instant.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return d.Time().Format(DayFormat)
}

func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

func (d Day) After(other Day) bool {
	return d.Time().After(other.Time())
}

func (d Day) Equal(other Day) bool {
	return d == other
}

func (d Day) Next() Day {
	return d.AddDays(1)
}

func (d Day) AddDays(n int) Day {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Range returns every day in [start, end] inclusive.
func Range(start, end Day) ([]Day, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	days := make([]Day, 0, end.Time().Sub(start.Time())/(24*time.Hour)+1)
	for d := start; !d.After(end); d = d.Next() {
		days = append(days, d)
	}
	return days, nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := ParseDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
