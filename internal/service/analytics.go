package service

import (
	"context"
	"math"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/dateutil"
	"github.com/yourname/habittracker/internal/storage"
)

// dayNames is indexed by the shared weekday convention (0=Sunday).
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type UserStats struct {
	TotalHabits       int            `json:"total_habits"`
	TotalCompletions  int            `json:"total_completions"`
	AverageStreak     float64        `json:"average_streak"`
	LongestStreak     int            `json:"longest_streak"`
	CompletionRate    float64        `json:"completion_rate"`
	CompletionsByDate map[string]int `json:"completions_by_date"`
}

type PeriodStats struct {
	Completions    int     `json:"completions"`
	CompletionRate float64 `json:"completion_rate"`
}

type BestDay struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type HabitAnalytics struct {
	TotalCompletions  int                         `json:"total_completions"`
	CurrentStreak     int                         `json:"current_streak"`
	LongestStreak     int                         `json:"longest_streak"`
	Last90Days        PeriodStats                 `json:"last_90_days"`
	BestDayOfWeek     *BestDay                    `json:"best_day_of_week"`
	RecentCompletions []internal.CompletionRecord `json:"recent_completions"`
}

type SystemStats struct {
	TotalUsers           int     `json:"total_users"`
	TotalHabits          int     `json:"total_habits"`
	TotalCompletions     int     `json:"total_completions"`
	AverageHabitsPerUser float64 `json:"average_habits_per_user"`
}

// AnalyticsService derives reporting views from the durable store. Reads
// only; streak numbers come from the durable summaries the engine maintains.
type AnalyticsService struct {
	store  storage.Store
	clock  dateutil.Clock
	logger internal.Logger
}

func NewAnalyticsService(store storage.Store, clock dateutil.Clock, logger internal.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, clock: clock, logger: logger}
}

// GetUserStats summarizes the user's last 30 days across all active habits.
// The expected-completions denominator treats every habit as daily; weekly
// and custom habits therefore deflate the rate slightly, a known
// simplification carried over from the reporting product.
func (s *AnalyticsService) GetUserStats(ctx context.Context, user *internal.User) (*UserStats, error) {
	today, err := s.clock.Today(user.Timezone)
	if err != nil {
		return nil, err
	}
	todayDate, err := dateutil.ParseDate(today)
	if err != nil {
		return nil, err
	}
	since := dateutil.FormatDate(dateutil.AddDays(todayDate, -30))

	habits, err := s.store.ListUserHabits(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalHabits:       len(habits),
		CompletionsByDate: map[string]int{},
	}
	streakTotal := 0
	for _, h := range habits {
		if sum, err := s.store.GetStreakSummary(ctx, h.ID); err != nil {
			return nil, err
		} else if sum != nil {
			streakTotal += sum.CurrentStreak
			if sum.LongestStreak > stats.LongestStreak {
				stats.LongestStreak = sum.LongestStreak
			}
		}
		dates, err := s.store.ListCompletionDates(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		// ISO dates compare correctly as strings.
		for _, d := range dates {
			if d >= since && d <= today {
				stats.TotalCompletions++
				stats.CompletionsByDate[d]++
			}
		}
	}

	if stats.TotalHabits > 0 {
		stats.AverageStreak = round1(float64(streakTotal) / float64(stats.TotalHabits))
		expected := stats.TotalHabits * 30
		stats.CompletionRate = round1(float64(stats.TotalCompletions) / float64(expected) * 100)
	}
	return stats, nil
}

// GetHabitAnalytics reports on one habit's last 90 days, including the best
// day of week under the same 0=Sunday numbering custom policies use.
func (s *AnalyticsService) GetHabitAnalytics(ctx context.Context, user *internal.User, habitID string) (*HabitAnalytics, error) {
	if _, err := s.store.GetUserHabit(ctx, habitID, user.ID); err != nil {
		return nil, err
	}
	today, err := s.clock.Today(user.Timezone)
	if err != nil {
		return nil, err
	}
	todayDate, err := dateutil.ParseDate(today)
	if err != nil {
		return nil, err
	}
	since := dateutil.FormatDate(dateutil.AddDays(todayDate, -90))

	dates, err := s.store.ListCompletionDates(ctx, habitID)
	if err != nil {
		return nil, err
	}

	out := &HabitAnalytics{TotalCompletions: len(dates)}
	if sum, err := s.store.GetStreakSummary(ctx, habitID); err != nil {
		return nil, err
	} else if sum != nil {
		out.CurrentStreak = sum.CurrentStreak
		out.LongestStreak = sum.LongestStreak
	}

	var dayCounts [7]int
	for _, d := range dates {
		if d < since {
			continue
		}
		out.Last90Days.Completions++
		parsed, err := dateutil.ParseDate(d)
		if err != nil {
			continue
		}
		dayCounts[dateutil.WeekdayOf(parsed)]++
	}
	out.Last90Days.CompletionRate = round1(float64(out.Last90Days.Completions) / 90 * 100)

	for day, count := range dayCounts {
		if count > 0 && (out.BestDayOfWeek == nil || count > out.BestDayOfWeek.Count) {
			out.BestDayOfWeek = &BestDay{Day: dayNames[day], Count: count}
		}
	}

	out.RecentCompletions, err = s.store.ListCompletions(ctx, habitID, 10)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSystemStats backs the admin dashboard.
func (s *AnalyticsService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := s.store.CountActiveHabits(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.store.CountCompletions(ctx)
	if err != nil {
		return nil, err
	}
	stats := &SystemStats{
		TotalUsers:       users,
		TotalHabits:      habits,
		TotalCompletions: completions,
	}
	if users > 0 {
		stats.AverageHabitsPerUser = round1(float64(habits) / float64(users))
	}
	return stats, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
