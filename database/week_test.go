package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekFirstWeekOf2025(t *testing.T) {
	// Jan 4 2025 is a Saturday, so ISO week 1 runs from Monday Dec 30 2024
	// through Sunday Jan 5 2025.
	start, end, err := ParseWeek("2025-W01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), end)
}

func TestParseWeekMidYear(t *testing.T) {
	start, end, err := ParseWeek("2025-W10")
	require.NoError(t, err)

	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Sunday, end.Weekday())
	assert.Equal(t, start.AddDate(0, 0, 6), end)

	// The Monday must itself belong to the requested ISO week.
	year, week := start.ISOWeek()
	assert.Equal(t, 2025, year)
	assert.Equal(t, 10, week)
}

func TestParseWeekMalformed(t *testing.T) {
	for _, week := range []string{"", "2025", "2025-10", "2025W01", "abcd-W01", "2025-Wxx"} {
		_, _, err := ParseWeek(week)
		assert.ErrorIs(t, err, ErrInvalid, "week %q", week)
	}
}

func TestFormatWeekZeroPads(t *testing.T) {
	assert.Equal(t, "2025-W01", FormatWeek(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-W27", FormatWeek(time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)))

	// Dec 30 2024 belongs to 2025-W01 under ISO rules.
	assert.Equal(t, "2025-W01", FormatWeek(time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeekRoundTripsWithFormatWeek(t *testing.T) {
	for _, week := range []string{"2020-W53", "2024-W01", "2025-W01", "2025-W30", "2026-W52"} {
		start, _, err := ParseWeek(week)
		require.NoError(t, err)
		assert.Equal(t, week, FormatWeek(start))
	}
}
