package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 29, 17, 42, 11, 500, time.UTC)
	got := StartOfDay(in)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 29, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func TestDayDiff(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day ignores time",
			a:    time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "next day",
			a:    time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "negative when b precedes a",
			a:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
			want: -3,
		},
		{
			name: "across month boundary",
			a:    time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 9, 2, 6, 0, 0, 0, time.UTC),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayDiff(tt.a, tt.b))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysUntil(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), now))
	// Partial days round up
	assert.Equal(t, 1, DaysUntil(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), now))
	// Past deadlines go negative
	assert.Equal(t, -2, DaysUntil(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC), now))
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{
			name: "plain month",
			in:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			n:    1,
			want: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 rolls into march",
			in:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			n:    1,
			want: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "across year boundary",
			in:   time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
			n:    3,
			want: time.Date(2027, 2, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}

func TestYearsBetween(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(365*24*time.Hour + 6*time.Hour)
	assert.InDelta(t, 1.0, YearsBetween(from, to), 0.001)

	// Negative span when reversed
	assert.Less(t, YearsBetween(to, from), 0.0)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-08-29")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("29/08/2026")
	assert.Error(t, err)
}
