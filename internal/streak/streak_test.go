package streak

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/dateutil"
)

func daily() internal.FrequencyPolicy {
	return internal.FrequencyPolicy{Type: internal.FrequencyDaily}
}

func weekly(target int) internal.FrequencyPolicy {
	return internal.FrequencyPolicy{Type: internal.FrequencyWeekly, Target: target}
}

func custom(days ...int) internal.FrequencyPolicy {
	return internal.FrequencyPolicy{Type: internal.FrequencyCustom, Days: days}
}

func TestCompute_DailyConsecutive(t *testing.T) {
	completions := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	res, err := Compute(completions, daily(), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Current)
	assert.Equal(t, 5, res.Longest)
}

func TestCompute_DailyGapBreaksStreak(t *testing.T) {
	res, err := Compute([]string{"2024-01-01", "2024-01-03"}, daily(), "2024-01-04", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 1, res.Longest)
}

func TestCompute_DailyTodayExcluded(t *testing.T) {
	// A completion on today alone contributes to longest but not current.
	res, err := Compute([]string{"2024-01-06"}, daily(), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 1, res.Longest)

	// With yesterday also completed the current streak still stops at
	// yesterday; today is never scanned.
	res, err = Compute([]string{"2024-01-05", "2024-01-06"}, daily(), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 2, res.Longest)
}

func TestCompute_DailyLongestInOlderRun(t *testing.T) {
	completions := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-08", "2024-01-09",
	}
	res, err := Compute(completions, daily(), "2024-01-10", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, 4, res.Longest)
}

func TestCompute_EmptyCompletions(t *testing.T) {
	for _, policy := range []internal.FrequencyPolicy{daily(), weekly(3), custom(1, 3)} {
		res, err := Compute(nil, policy, "2024-01-06", time.Monday)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
	}
}

func TestCompute_DuplicatesAndOrderIgnored(t *testing.T) {
	ordered := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	shuffled := []string{"2024-01-03", "2024-01-01", "2024-01-02", "2024-01-02", "2024-01-01"}

	want, err := Compute(ordered, daily(), "2024-01-04", time.Monday)
	require.NoError(t, err)
	got, err := Compute(shuffled, daily(), "2024-01-04", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCompute_MalformedDatesDropped(t *testing.T) {
	res, err := Compute([]string{"2024-01-02", "not-a-date", "2024-01-03"}, daily(), "2024-01-04", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, 2, res.Longest)
}

func TestCompute_BadToday(t *testing.T) {
	_, err := Compute([]string{"2024-01-01"}, daily(), "01/06/2024", time.Monday)
	assert.Error(t, err)
}

func TestCompute_UnknownPolicyType(t *testing.T) {
	_, err := Compute([]string{"2024-01-01"}, internal.FrequencyPolicy{Type: "HOURLY"}, "2024-01-06", time.Monday)
	assert.ErrorIs(t, err, internal.ErrInvalidPolicy)
}

func TestCompute_WeeklyConsecutiveWeeks(t *testing.T) {
	// Week of Jan 8 has 4 completions, week of Jan 1 has 3; today is Monday
	// Jan 15, so the scan starts at the Jan 8 week.
	completions := []string{
		"2024-01-01", "2024-01-03", "2024-01-05",
		"2024-01-08", "2024-01-09", "2024-01-11", "2024-01-14",
	}
	res, err := Compute(completions, weekly(3), "2024-01-15", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, 2, res.Longest)
}

func TestCompute_WeeklyUnderTarget(t *testing.T) {
	completions := []string{"2024-01-08", "2024-01-09"}
	res, err := Compute(completions, weekly(3), "2024-01-15", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 0, res.Longest)
}

func TestCompute_WeeklyLongestAcrossGap(t *testing.T) {
	// Two qualifying weeks, a failed week, then one qualifying week.
	completions := []string{
		"2024-01-01", "2024-01-02",
		"2024-01-08", "2024-01-09",
		"2024-01-16",
		"2024-01-22", "2024-01-23",
	}
	res, err := Compute(completions, weekly(2), "2024-01-29", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 2, res.Longest)
}

func TestCompute_WeeklyWeekStartSunday(t *testing.T) {
	// 2024-01-07 is a Sunday. With Sunday weeks it buckets with Jan 8-13;
	// with Monday weeks it belongs to the prior week.
	completions := []string{"2024-01-07", "2024-01-08"}

	res, err := Compute(completions, weekly(2), "2024-01-15", time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Current)

	res, err = Compute(completions, weekly(2), "2024-01-15", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Current)
}

func TestCompute_CustomMonWedFri(t *testing.T) {
	completions := []string{"2024-01-01", "2024-01-03", "2024-01-05"}
	res, err := Compute(completions, custom(1, 3, 5), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Current)
	assert.Equal(t, 3, res.Longest)
}

func TestCompute_CustomNonRequiredDayInvisible(t *testing.T) {
	// An extra Tuesday completion neither helps nor breaks a Mon/Wed/Fri habit.
	completions := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"}
	res, err := Compute(completions, custom(1, 3, 5), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Current)
	assert.Equal(t, 3, res.Longest)
}

func TestCompute_CustomMissedRequiredDayBreaks(t *testing.T) {
	// Wednesday Jan 3 missed: the current streak stops at Friday.
	completions := []string{"2024-01-01", "2024-01-05"}
	res, err := Compute(completions, custom(1, 3, 5), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 1, res.Longest)
}

func TestCompute_CustomLongestResetsOnSkip(t *testing.T) {
	// Mon+Wed, skipped Friday, then Mon+Wed the next week.
	completions := []string{"2024-01-01", "2024-01-03", "2024-01-08", "2024-01-10"}
	res, err := Compute(completions, custom(1, 3, 5), "2024-01-11", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, 2, res.Longest)
}

func TestCompute_CustomEmptyDays(t *testing.T) {
	res, err := Compute([]string{"2024-01-01"}, custom(), "2024-01-06", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestCompute_DailyScanBound(t *testing.T) {
	today, err := dateutil.ParseDate("2024-02-01")
	require.NoError(t, err)
	completions := make([]string, 0, 400)
	for i := 1; i <= 400; i++ {
		completions = append(completions, dateutil.FormatDate(dateutil.AddDays(today, -i)))
	}
	res, err := Compute(completions, daily(), "2024-02-01", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 365, res.Current)
	assert.Equal(t, 400, res.Longest)
}

func TestCompute_LongestAtLeastCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base, err := dateutil.ParseDate("2024-01-01")
	require.NoError(t, err)
	policies := []internal.FrequencyPolicy{daily(), weekly(2), custom(1, 3, 5)}

	for trial := 0; trial < 50; trial++ {
		var completions []string
		for i := 0; i < 120; i++ {
			if rng.Intn(3) != 0 {
				completions = append(completions, dateutil.FormatDate(dateutil.AddDays(base, i)))
			}
		}
		today := dateutil.FormatDate(dateutil.AddDays(base, 121))
		for _, policy := range policies {
			res, err := Compute(completions, policy, today, time.Monday)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Longest, res.Current,
				fmt.Sprintf("trial %d policy %s", trial, policy.Type))

			again, err := Compute(completions, policy, today, time.Monday)
			require.NoError(t, err)
			assert.Equal(t, res, again)
		}
	}
}

func TestLastCompleted(t *testing.T) {
	assert.Equal(t, "", LastCompleted(nil))
	assert.Equal(t, "2024-03-01", LastCompleted([]string{"2024-01-05", "2024-03-01", "2024-02-10"}))
}
