package internal

import (
	"fmt"
	"time"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Token    string `json:"-"`
}

type FrequencyType string

const (
	FrequencyDaily  FrequencyType = "DAILY"
	FrequencyWeekly FrequencyType = "WEEKLY"
	FrequencyCustom FrequencyType = "CUSTOM"
)

// FrequencyPolicy defines which calendar periods require a completion.
// It is a closed variant: Target applies to WEEKLY only (completions per
// calendar week), Days applies to CUSTOM only (required weekdays, 0=Sunday
// through 6=Saturday, the same numbering analytics uses for best-day-of-week).
type FrequencyPolicy struct {
	Type   FrequencyType `json:"type"`
	Target int           `json:"target,omitempty"`
	Days   []int         `json:"days,omitempty"`
}

// Validate rejects malformed policies at the write boundary. Out-of-range
// values are errors, never clamped.
func (p FrequencyPolicy) Validate() error {
	switch p.Type {
	case FrequencyDaily:
		return nil
	case FrequencyWeekly:
		if p.Target < 1 || p.Target > 7 {
			return fmt.Errorf("%w: weekly target %d must be within [1,7]", ErrInvalidPolicy, p.Target)
		}
		return nil
	case FrequencyCustom:
		if len(p.Days) == 0 {
			return fmt.Errorf("%w: custom policy requires at least one weekday", ErrInvalidPolicy)
		}
		seen := make(map[int]bool, len(p.Days))
		for _, d := range p.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: weekday %d outside [0,6]", ErrInvalidPolicy, d)
			}
			if seen[d] {
				return fmt.Errorf("%w: weekday %d listed twice", ErrInvalidPolicy, d)
			}
			seen[d] = true
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown frequency type %q", ErrInvalidPolicy, p.Type)
	}
}

type Habit struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Frequency       FrequencyPolicy `json:"frequency"`
	ReminderEnabled bool            `json:"reminder_enabled"`
	ReminderTime    string          `json:"reminder_time,omitempty"`
	Color           string          `json:"color"`
	Icon            string          `json:"icon"`
	Archived        bool            `json:"archived"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CompletionRecord marks a habit as satisfied on one calendar date.
// At most one record exists per (HabitID, CompletedDate); the store enforces it.
type CompletionRecord struct {
	ID            string    `json:"id"`
	HabitID       string    `json:"habit_id"`
	CompletedDate string    `json:"completed_date"` // yyyy-MM-dd
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StreakSummary is the durable per-habit streak record, upserted after every
// recompute. The cache holds a JSON copy of this exact shape; the durable row
// is the source of truth and the cache may be dropped at any time.
type StreakSummary struct {
	HabitID           string  `json:"habit_id"`
	CurrentStreak     int     `json:"current_streak"`
	LongestStreak     int     `json:"longest_streak"`
	LastCompletedDate *string `json:"last_completed_date"` // yyyy-MM-dd, nil when never completed
}
