package billing

import (
	"errors"
	"time"
)

// MonthStart normalizes a time to the first day of its month, UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DayStart truncates a time to midnight UTC.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseMonth parses a YYYY-MM string into a normalized month start.
func ParseMonth(month string) (time.Time, error) {
	if month == "" {
		return time.Time{}, errors.New("billing: month required")
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, errors.New("billing: month must be YYYY-MM")
	}
	return MonthStart(t), nil
}

// MonthLabel formats a month start for humans.
func MonthLabel(month time.Time) string {
	return month.Format("January 2006")
}

// AddMonthsClamped advances a date by whole months keeping the day of
// month, clamping to the last day when the target month is shorter
// (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(date time.Time, months int) time.Time {
	year, mon, day := date.Year(), int(date.Month())-1+months, date.Day()
	first := time.Date(year, time.Month(mon+1), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
