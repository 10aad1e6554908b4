package utils

import (
	"time"
)

// AddMonths adds calendar months with end-of-month clamping: Jan 31 plus one
// month lands on the last day of February rather than rolling into March the
// way time.AddDate normalizes overflow.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}
	hour, min, sec := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CeilDays returns the number of whole days from `from` to `to`, rounding any
// partial day up. A deadline later the same day counts as zero days away,
// not minus one.
func CeilDays(from, to time.Time) int {
	diff := to.Sub(from)
	days := diff / (HoursPerDay * time.Hour)
	if diff%(HoursPerDay*time.Hour) > 0 {
		days++
	}
	return int(days)
}
