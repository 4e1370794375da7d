package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWeek converts an ISO week identifier ("YYYY-Www", e.g. "2025-W01")
// into its Monday..Sunday date range. Per ISO-8601, January 4th always falls
// in week 1, so the Monday of week 1 is derived from it and the target week
// is a whole number of weeks later.
func ParseWeek(week string) (start, end time.Time, err error) {
	yearStr, weekStr, found := strings.Cut(week, "-W")
	if !found {
		return start, end, fmt.Errorf("%w: week %q must use format YYYY-Www, e.g. 2025-W01", ErrInvalid, week)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return start, end, fmt.Errorf("%w: invalid year in week %q", ErrInvalid, week)
	}
	num, err := strconv.Atoi(weekStr)
	if err != nil {
		return start, end, fmt.Errorf("%w: invalid week number in week %q", ErrInvalid, week)
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday is 7 in ISO numbering
	}
	monday := jan4.AddDate(0, 0, -(wd - 1))

	start = monday.AddDate(0, 0, (num-1)*7)
	end = start.AddDate(0, 0, 6)
	return start, end, nil
}

// FormatWeek renders the ISO week of t as "YYYY-Www" with a zero-padded
// two-digit week number.
func FormatWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// endOfDay returns the last representable instant of d's day, so that
// BETWEEN-style range filters include the whole final day.
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999000, d.Location())
}
