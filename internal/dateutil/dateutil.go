// Package dateutil holds the calendar arithmetic the streak engine depends
// on. Dates cross package boundaries as yyyy-MM-dd strings and are handled
// internally as UTC-midnight time.Time values, so day arithmetic is exact.
//
// Weekday numbering is 0=Sunday through 6=Saturday everywhere: custom-policy
// matching and the analytics best-day-of-week report share this convention.
package dateutil

import (
	"fmt"
	"time"

	"github.com/yourname/habittracker/internal"
)

const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date by n calendar days; n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekdayOf returns the weekday of t as 0=Sunday..6=Saturday.
func WeekdayOf(t time.Time) int {
	return int(t.Weekday())
}

// WeekStart returns the first day of the calendar week containing t.
func WeekStart(t time.Time, weekStartsOn time.Weekday) time.Time {
	diff := (int(t.Weekday()) - int(weekStartsOn) + 7) % 7
	return t.AddDate(0, 0, -diff)
}

// WeekEnd returns the last day of the calendar week containing t.
func WeekEnd(t time.Time, weekStartsOn time.Weekday) time.Time {
	return WeekStart(t, weekStartsOn).AddDate(0, 0, 6)
}

// Clock resolves the caller-local calendar date. It is injected into the
// services so tests can pin "today".
type Clock interface {
	Today(timezone string) (string, error)
}

type SystemClock struct{}

func (SystemClock) Today(timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("%w: %q", internal.ErrInvalidTimezone, timezone)
	}
	return time.Now().In(loc).Format(DateLayout), nil
}

// FixedClock ignores the timezone and always reports Date.
type FixedClock struct {
	Date string
}

func (c FixedClock) Today(string) (string, error) {
	return c.Date, nil
}
