package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_SecondMondayIsWeekTwo(t *testing.T) {
	pos := Resolve(date(2024, 1, 1), date(2024, 1, 8).Add(9*time.Hour), 4)

	assert.Equal(t, 2, pos.Week)
	assert.Equal(t, 1, pos.Day)
	assert.Equal(t, 2, pos.CalculatedWeek)
	assert.False(t, pos.PastEnd)
}

func TestResolve_Table(t *testing.T) {
	start := date(2024, 1, 1) // Monday

	tests := []struct {
		name     string
		now      time.Time
		weeks    int
		wantWeek int
		wantDay  int
		pastEnd  bool
	}{
		{"start day", start, 4, 1, 1, false},
		{"first sunday", date(2024, 1, 7), 4, 1, 7, false},
		{"last day of last week", date(2024, 1, 28), 4, 4, 7, false},
		{"after last week clamps", date(2024, 2, 14), 4, 4, 3, true},
		{"before start clamps to one", date(2023, 12, 20), 4, 1, 3, false},
		{"zero weeks treated as one", date(2024, 1, 20), 0, 1, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := Resolve(start, tt.now, tt.weeks)
			assert.Equal(t, tt.wantWeek, pos.Week)
			assert.Equal(t, tt.wantDay, pos.Day)
			assert.Equal(t, tt.pastEnd, pos.PastEnd)
		})
	}
}

func TestResolve_WeekAlwaysWithinProgram(t *testing.T) {
	start := date(2024, 3, 4)
	for weeks := 1; weeks <= 6; weeks++ {
		for offset := 0; offset < 80; offset++ {
			pos := Resolve(start, start.AddDate(0, 0, offset), weeks)
			assert.GreaterOrEqual(t, pos.Week, 1)
			assert.LessOrEqual(t, pos.Week, weeks)
			assert.GreaterOrEqual(t, pos.Day, 1)
			assert.LessOrEqual(t, pos.Day, 7)
		}
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(from, to))
	assert.Equal(t, -1, DaysBetween(to, from))
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 7, ISOWeekday(date(2024, 1, 7)))
	assert.Equal(t, 1, ISOWeekday(date(2024, 1, 8)))
}
