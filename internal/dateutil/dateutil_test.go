package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/habittracker/internal"
)

func TestParseAndFormatRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	_, err = ParseDate("2024-2-9")
	assert.Error(t, err)
}

func TestAddDaysAcrossMonthBoundary(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", FormatDate(AddDays(d, 1)))
	assert.Equal(t, "2024-01-01", FormatDate(AddDays(d, -30)))
}

func TestWeekdayOf(t *testing.T) {
	sunday, err := ParseDate("2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, 0, WeekdayOf(sunday))

	saturday, err := ParseDate("2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, 6, WeekdayOf(saturday))
}

func TestWeekStartAndEnd(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	wed, err := ParseDate("2024-01-10")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-08", FormatDate(WeekStart(wed, time.Monday)))
	assert.Equal(t, "2024-01-14", FormatDate(WeekEnd(wed, time.Monday)))

	assert.Equal(t, "2024-01-07", FormatDate(WeekStart(wed, time.Sunday)))
	assert.Equal(t, "2024-01-13", FormatDate(WeekEnd(wed, time.Sunday)))

	// A Monday is its own Monday-week start.
	mon, err := ParseDate("2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", FormatDate(WeekStart(mon, time.Monday)))
}

func TestSystemClock(t *testing.T) {
	today, err := SystemClock{}.Today("UTC")
	require.NoError(t, err)
	_, err = ParseDate(today)
	assert.NoError(t, err)

	_, err = SystemClock{}.Today("Mars/Olympus")
	assert.ErrorIs(t, err, internal.ErrInvalidTimezone)
}

func TestFixedClock(t *testing.T) {
	today, err := FixedClock{Date: "2024-01-06"}.Today("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", today)
}
