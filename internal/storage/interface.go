package storage

import (
	"context"
	"encoding/json"

	"github.com/yourname/habittracker/internal"
)

type HabitRepository interface {
	CreateHabit(ctx context.Context, habit *internal.Habit) error
	// GetHabit loads a habit regardless of owner; used by the streak engine.
	GetHabit(ctx context.Context, habitID string) (*internal.Habit, error)
	// GetUserHabit loads a habit only when owned by userID.
	GetUserHabit(ctx context.Context, habitID, userID string) (*internal.Habit, error)
	// ListUserHabits returns the user's non-archived habits, newest first.
	ListUserHabits(ctx context.Context, userID string) ([]internal.Habit, error)
	// ListActiveHabits returns every non-archived habit; used by bulk recompute.
	ListActiveHabits(ctx context.Context) ([]internal.Habit, error)
	UpdateHabit(ctx context.Context, habit *internal.Habit) error
	ArchiveHabit(ctx context.Context, habitID string) error
	CountActiveHabits(ctx context.Context) (int, error)
}

type CompletionRepository interface {
	// CreateCompletion returns internal.ErrDuplicateCompletion when a record
	// for (HabitID, CompletedDate) already exists.
	CreateCompletion(ctx context.Context, c *internal.CompletionRecord) error
	// DeleteCompletion is a no-op when no record matches.
	DeleteCompletion(ctx context.Context, habitID, completedDate string) error
	HasCompletion(ctx context.Context, habitID, completedDate string) (bool, error)
	// ListCompletionDates returns all completion dates, newest first.
	ListCompletionDates(ctx context.Context, habitID string) ([]string, error)
	// ListCompletions returns full records, newest first, at most limit.
	ListCompletions(ctx context.Context, habitID string, limit int) ([]internal.CompletionRecord, error)
	CountCompletions(ctx context.Context) (int, error)
}

type StreakRepository interface {
	UpsertStreakSummary(ctx context.Context, s *internal.StreakSummary) error
	// GetStreakSummary returns (nil, nil) when no summary exists yet.
	GetStreakSummary(ctx context.Context, habitID string) (*internal.StreakSummary, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUser(ctx context.Context, userID string) (*internal.User, error)
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// frequencyConfig is the JSON blob stored next to frequency_type; only the
// fields relevant to the type are set.
type frequencyConfig struct {
	Target int   `json:"target,omitempty"`
	Days   []int `json:"days,omitempty"`
}

func encodePolicy(p internal.FrequencyPolicy) (string, []byte, error) {
	raw, err := json.Marshal(frequencyConfig{Target: p.Target, Days: p.Days})
	if err != nil {
		return "", nil, err
	}
	return string(p.Type), raw, nil
}

func decodePolicy(ftype string, raw []byte) (internal.FrequencyPolicy, error) {
	var fc frequencyConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fc); err != nil {
			return internal.FrequencyPolicy{}, err
		}
	}
	return internal.FrequencyPolicy{
		Type:   internal.FrequencyType(ftype),
		Target: fc.Target,
		Days:   fc.Days,
	}, nil
}
