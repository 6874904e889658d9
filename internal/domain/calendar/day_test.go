package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare date", input: "2025-12-24", want: "2025-12-24"},
		{name: "rfc3339 utc", input: "2025-12-24T09:30:00Z", want: "2025-12-24"},
		{name: "rfc3339 end of day", input: "2025-12-24T23:59:59Z", want: "2025-12-24"},
		{name: "rfc3339 negative offset keeps wall date", input: "2025-12-24T20:00:00-05:00", want: "2025-12-24"},
		{name: "rfc3339 positive offset keeps wall date", input: "2025-12-24T01:00:00+09:00", want: "2025-12-24"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "wrong order", input: "24-12-2025", wantErr: true},
		{name: "nonexistent day", input: "2025-02-30", wantErr: true},
		{name: "month out of range", input: "2025-13-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

// A bare date and the same date with any time-of-day must land on the same
// day no matter what the process TZ is. This guards against the classic
// "date rolls back a day west of Greenwich" bug.
func TestParseDay_TimeOfDayNeverShiftsDay(t *testing.T) {
	restore := time.Local
	defer func() { time.Local = restore }()
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	time.Local = la

	for _, raw := range []string{"2025-01-01", "2025-07-04", "2025-12-31"} {
		bare, err := ParseDay(raw)
		require.NoError(t, err)
		withTime, err := ParseDay(raw + "T23:59:59Z")
		require.NoError(t, err)
		assert.True(t, bare.Equal(withTime), "%s: %s != %s", raw, bare, withTime)
	}
}

func TestFromTime_UsesWallClockDate(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	// 11pm in LA is already the next day in UTC; the calendar day stays local.
	instant := time.Date(2025, time.March, 15, 23, 0, 0, 0, la)
	assert.Equal(t, "2025-03-15", FromTime(instant).String())
	assert.Equal(t, "2025-03-16", FromTime(instant.UTC()).String())
}

func TestNewDay_RejectsImpossibleDates(t *testing.T) {
	_, err := NewDay(2025, time.February, 30)
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = NewDay(2024, time.February, 29)
	assert.NoError(t, err, "2024 is a leap year")
	_, err = NewDay(2025, time.February, 29)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDay_Ordering(t *testing.T) {
	a := MustDay(2025, time.June, 1)
	b := MustDay(2025, time.June, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.Equal(t, b, a.Next())
	assert.Equal(t, a, b.AddDays(-1))
}

func TestRange(t *testing.T) {
	start := MustDay(2025, time.December, 30)
	end := MustDay(2026, time.January, 2)
	days, err := Range(start, end)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-12-30", days[0].String())
	assert.Equal(t, "2026-01-02", days[3].String())

	single, err := Range(start, start)
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = Range(end, start)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDay_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Due Day `json:"due"`
	}
	out, err := json.Marshal(payload{Due: MustDay(2025, time.July, 4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-07-04"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-07-04"}`), &in))
	assert.Equal(t, "2025-07-04", in.Due.String())

	var bad payload
	assert.Error(t, json.Unmarshal([]byte(`{"due":"not-a-day"}`), &bad))
}
