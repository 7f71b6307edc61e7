// Package streak computes current and longest habit streaks from a habit's
// completion history. Everything here is pure: callers supply the completion
// dates, the frequency policy, and "today", so identical inputs always yield
// identical results and the package is unit-testable without I/O.
package streak

import (
	"sort"
	"time"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/dateutil"
)

// Backward scans stop after these many steps. A streak older than the bound
// is reported as the bound itself, a deliberate cap on worst-case cost for
// pathological histories.
const (
	maxDayScan  = 365
	maxWeekScan = 52
)

type Result struct {
	Current int
	Longest int
}

// Compute returns the current and longest streak under the given policy.
//
// completions are yyyy-MM-dd strings; duplicates and ordering are ignored.
// today itself is excluded from the backward scans so an as-yet-incomplete
// today never breaks the current streak. weekStartsOn only affects weekly
// bucketing.
func Compute(completions []string, policy internal.FrequencyPolicy, today string, weekStartsOn time.Weekday) (Result, error) {
	todayDate, err := dateutil.ParseDate(today)
	if err != nil {
		return Result{}, err
	}

	set, dates := dedupe(completions)
	if len(dates) == 0 {
		return Result{}, nil
	}

	// Policies are validated at the write boundary; the only malformed input
	// tolerated here is an empty custom weekday set, which yields (0,0).
	switch policy.Type {
	case internal.FrequencyDaily:
		return Result{
			Current: dailyCurrent(set, todayDate),
			Longest: dailyLongest(dates),
		}, nil
	case internal.FrequencyWeekly:
		return Result{
			Current: weeklyCurrent(dates, todayDate, policy.Target, weekStartsOn),
			Longest: weeklyLongest(dates, policy.Target, weekStartsOn),
		}, nil
	case internal.FrequencyCustom:
		return Result{
			Current: customCurrent(set, todayDate, policy.Days),
			Longest: customLongest(dates, policy.Days),
		}, nil
	default:
		return Result{}, internal.ErrInvalidPolicy
	}
}

// LastCompleted returns the most recent completion date, or "" when there are
// none. Feeds StreakSummary.LastCompletedDate.
func LastCompleted(completions []string) string {
	last := ""
	for _, c := range completions {
		if c > last {
			last = c
		}
	}
	return last
}

// dedupe returns a lookup set plus the unique dates sorted ascending.
// Rows that are not yyyy-MM-dd are dropped; the store only writes that layout.
func dedupe(completions []string) (map[string]struct{}, []time.Time) {
	set := make(map[string]struct{}, len(completions))
	dates := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		if _, ok := set[c]; ok {
			continue
		}
		d, err := dateutil.ParseDate(c)
		if err != nil {
			continue
		}
		set[c] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return set, dates
}

// dailyCurrent counts consecutive completed days walking back from yesterday.
func dailyCurrent(set map[string]struct{}, today time.Time) int {
	streak := 0
	check := dateutil.AddDays(today, -1)
	for i := 0; i < maxDayScan; i++ {
		if _, ok := set[dateutil.FormatDate(check)]; !ok {
			break
		}
		streak++
		check = dateutil.AddDays(check, -1)
	}
	return streak
}

// dailyLongest finds the longest run of adjacent dates. dates must be sorted
// ascending and unique.
func dailyLongest(dates []time.Time) int {
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// weeklyCurrent counts consecutive qualifying weeks walking back from the
// week before the one containing today. A week qualifies when it holds at
// least target completions.
func weeklyCurrent(dates []time.Time, today time.Time, target int, weekStartsOn time.Weekday) int {
	streak := 0
	ws := dateutil.AddDays(dateutil.WeekStart(today, weekStartsOn), -7)
	for i := 0; i < maxWeekScan; i++ {
		if countInWeek(dates, ws) < target {
			break
		}
		streak++
		ws = dateutil.AddDays(ws, -7)
	}
	return streak
}

// weeklyLongest walks forward week by week from the earliest completion's
// week through the latest's, tracking the longest qualifying run.
func weeklyLongest(dates []time.Time, target int, weekStartsOn time.Weekday) int {
	first := dateutil.WeekStart(dates[0], weekStartsOn)
	last := dateutil.WeekStart(dates[len(dates)-1], weekStartsOn)
	longest, run := 0, 0
	for ws := first; !ws.After(last); ws = dateutil.AddDays(ws, 7) {
		if countInWeek(dates, ws) >= target {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func countInWeek(dates []time.Time, weekStart time.Time) int {
	weekEnd := dateutil.AddDays(weekStart, 6)
	n := 0
	for _, d := range dates {
		if !d.Before(weekStart) && !d.After(weekEnd) {
			n++
		}
	}
	return n
}

// customCurrent counts satisfied required days walking back from yesterday.
// Days whose weekday is not required are skipped without affecting the count;
// the first required day with no completion stops the scan.
func customCurrent(set map[string]struct{}, today time.Time, days []int) int {
	required := requiredSet(days)
	if len(required) == 0 {
		return 0
	}
	streak := 0
	check := dateutil.AddDays(today, -1)
	for i := 0; i < maxDayScan; i++ {
		if required[dateutil.WeekdayOf(check)] {
			if _, ok := set[dateutil.FormatDate(check)]; !ok {
				break
			}
			streak++
		}
		check = dateutil.AddDays(check, -1)
	}
	return streak
}

// customLongest scans completions on required weekdays in chronological
// order. The run extends only when a completion lands on the next required
// weekday strictly after the previous counted one; any skipped required day
// resets the run to 1. Completions on non-required weekdays are invisible.
func customLongest(dates []time.Time, days []int) int {
	required := requiredSet(days)
	if len(required) == 0 {
		return 0
	}
	longest, run := 0, 0
	var prev time.Time
	counted := false
	for _, d := range dates {
		if !required[dateutil.WeekdayOf(d)] {
			continue
		}
		if counted && d.Equal(nextRequiredDay(prev, required)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
		counted = true
	}
	return longest
}

// nextRequiredDay returns the first required weekday strictly after from.
func nextRequiredDay(from time.Time, required map[int]bool) time.Time {
	d := dateutil.AddDays(from, 1)
	for i := 0; i < 6; i++ {
		if required[dateutil.WeekdayOf(d)] {
			break
		}
		d = dateutil.AddDays(d, 1)
	}
	return d
}

func requiredSet(days []int) map[int]bool {
	required := make(map[int]bool, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			required[d] = true
		}
	}
	return required
}
