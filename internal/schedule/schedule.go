// Package schedule maps an assignment start date and a wall-clock time to a program slot.
package schedule

import "time"

const day = 24 * time.Hour

// Position is the (week, weekday) slot a client is on.
type Position struct {
	Week int `json:"week"`
	Day  int `json:"day"` // ISO weekday, Mon=1..Sun=7

	// CalculatedWeek is the unclamped week number, useful to tell how far past the end a client is.
	CalculatedWeek int `json:"calculatedWeek"`
	// PastEnd reports that the calendar ran beyond the last program week. Week stays clamped.
	PastEnd bool `json:"pastEnd"`
}

// Resolve computes the slot of now within a program of weeksCount weeks started on start.
// Dates are compared at day granularity in now's location.
func Resolve(start, now time.Time, weeksCount int) Position {
	if weeksCount < 1 {
		weeksCount = 1
	}
	diffDays := DaysBetween(start, now)

	calculated := ceilDiv(diffDays+1, 7)
	week := calculated
	if week < 1 {
		week = 1
	}
	if week > weeksCount {
		week = weeksCount
	}

	return Position{
		Week:           week,
		Day:            ISOWeekday(now),
		CalculatedWeek: calculated,
		PastEnd:        calculated > weeksCount,
	}
}

// DaysBetween is floor((to - from) / 1 day) over calendar dates.
func DaysBetween(from, to time.Time) int {
	loc := to.Location()
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	// Round absorbs the hour lost or gained on DST switches.
	return int(t.Sub(f).Round(day) / day)
}

// ISOWeekday returns Mon=1..Sun=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfDay truncates t to midnight UTC of its calendar date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}
