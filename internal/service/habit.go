package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/dateutil"
	"github.com/yourname/habittracker/internal/storage"
)

var validate = validator.New()

const (
	defaultColor        = "#3B82F6"
	defaultIcon         = "⭐"
	defaultHistoryLimit = 30
)

type CreateHabitRequest struct {
	Name            string                   `json:"name" validate:"required,max=100"`
	Description     string                   `json:"description" validate:"max=500"`
	Frequency       internal.FrequencyPolicy `json:"frequency" validate:"required"`
	ReminderEnabled bool                     `json:"reminder_enabled"`
	ReminderTime    string                   `json:"reminder_time" validate:"omitempty,datetime=15:04"`
	Color           string                   `json:"color" validate:"omitempty,hexcolor"`
	Icon            string                   `json:"icon" validate:"max=16"`
}

type UpdateHabitRequest struct {
	Name            *string                   `json:"name" validate:"omitempty,max=100"`
	Description     *string                   `json:"description" validate:"omitempty,max=500"`
	Frequency       *internal.FrequencyPolicy `json:"frequency"`
	ReminderEnabled *bool                     `json:"reminder_enabled"`
	ReminderTime    *string                   `json:"reminder_time" validate:"omitempty,datetime=15:04"`
	Color           *string                   `json:"color" validate:"omitempty,hexcolor"`
	Icon            *string                   `json:"icon" validate:"omitempty,max=16"`
}

type CompleteHabitRequest struct {
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes string `json:"notes" validate:"max=500"`
}

// HabitSummary is a habit as shown in lists: the habit plus its durable
// streak numbers and whether it was completed on the user's local today.
type HabitSummary struct {
	internal.Habit
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
	CompletedToday bool `json:"completed_today"`
}

// HabitService owns habit CRUD and the completion write path. Every write
// that changes streak inputs invalidates and recomputes through the
// StreakService before returning.
type HabitService struct {
	store   storage.Store
	streaks *StreakService
	clock   dateutil.Clock
	logger  internal.Logger
}

func NewHabitService(store storage.Store, streaks *StreakService, clock dateutil.Clock, logger internal.Logger) *HabitService {
	return &HabitService{store: store, streaks: streaks, clock: clock, logger: logger}
}

func (s *HabitService) CreateHabit(ctx context.Context, user *internal.User, req *CreateHabitRequest) (*internal.Habit, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := req.Frequency.Validate(); err != nil {
		return nil, err
	}

	habit := &internal.Habit{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Name:            req.Name,
		Description:     req.Description,
		Frequency:       req.Frequency,
		ReminderEnabled: req.ReminderEnabled,
		ReminderTime:    req.ReminderTime,
		Color:           req.Color,
		Icon:            req.Icon,
		CreatedAt:       time.Now(),
	}
	if habit.Color == "" {
		habit.Color = defaultColor
	}
	if habit.Icon == "" {
		habit.Icon = defaultIcon
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}

	// New habits start with an all-zero durable summary.
	if err := s.store.UpsertStreakSummary(ctx, &internal.StreakSummary{HabitID: habit.ID}); err != nil {
		return nil, err
	}
	return habit, nil
}

// ListHabits returns the user's non-archived habits with streaks from the
// durable summaries (not the cache: a list read must not fan out into N
// recomputes) and completedToday resolved against the user's timezone.
func (s *HabitService) ListHabits(ctx context.Context, user *internal.User) ([]HabitSummary, error) {
	habits, err := s.store.ListUserHabits(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	today, err := s.clock.Today(user.Timezone)
	if err != nil {
		return nil, err
	}

	summaries := make([]HabitSummary, 0, len(habits))
	for _, h := range habits {
		item := HabitSummary{Habit: h}
		if sum, err := s.store.GetStreakSummary(ctx, h.ID); err != nil {
			return nil, err
		} else if sum != nil {
			item.CurrentStreak = sum.CurrentStreak
			item.LongestStreak = sum.LongestStreak
		}
		done, err := s.store.HasCompletion(ctx, h.ID, today)
		if err != nil {
			return nil, err
		}
		item.CompletedToday = done
		summaries = append(summaries, item)
	}
	return summaries, nil
}

func (s *HabitService) GetHabit(ctx context.Context, user *internal.User, habitID string) (*HabitSummary, error) {
	habit, err := s.store.GetUserHabit(ctx, habitID, user.ID)
	if err != nil {
		return nil, err
	}
	item := &HabitSummary{Habit: *habit}
	if sum, err := s.store.GetStreakSummary(ctx, habitID); err != nil {
		return nil, err
	} else if sum != nil {
		item.CurrentStreak = sum.CurrentStreak
		item.LongestStreak = sum.LongestStreak
	}
	today, err := s.clock.Today(user.Timezone)
	if err != nil {
		return nil, err
	}
	done, err := s.store.HasCompletion(ctx, habitID, today)
	if err != nil {
		return nil, err
	}
	item.CompletedToday = done
	return item, nil
}

// UpdateHabit applies a partial update. A frequency change makes the cached
// streak meaningless, so it triggers a synchronous recompute before return.
func (s *HabitService) UpdateHabit(ctx context.Context, user *internal.User, habitID string, req *UpdateHabitRequest) (*internal.Habit, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	habit, err := s.store.GetUserHabit(ctx, habitID, user.ID)
	if err != nil {
		return nil, err
	}

	policyChanged := false
	if req.Frequency != nil {
		if err := req.Frequency.Validate(); err != nil {
			return nil, err
		}
		habit.Frequency = *req.Frequency
		policyChanged = true
	}
	if req.Name != nil {
		habit.Name = *req.Name
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.ReminderEnabled != nil {
		habit.ReminderEnabled = *req.ReminderEnabled
	}
	if req.ReminderTime != nil {
		habit.ReminderTime = *req.ReminderTime
	}
	if req.Color != nil {
		habit.Color = *req.Color
	}
	if req.Icon != nil {
		habit.Icon = *req.Icon
	}

	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, err
	}
	if policyChanged {
		if _, err := s.streaks.RecalculateStreak(ctx, habitID); err != nil {
			return nil, err
		}
	}
	return habit, nil
}

// ArchiveHabit soft-deletes: the habit drops out of lists, analytics, and
// bulk recompute, but its completion history stays.
func (s *HabitService) ArchiveHabit(ctx context.Context, user *internal.User, habitID string) error {
	if _, err := s.store.GetUserHabit(ctx, habitID, user.ID); err != nil {
		return err
	}
	if err := s.store.ArchiveHabit(ctx, habitID); err != nil {
		return err
	}
	s.streaks.InvalidateStreak(ctx, habitID)
	return nil
}

// CompleteHabit records a completion (defaulting to the user's local today)
// and recomputes the streak before returning, so the caller's next read sees
// the new completion reflected.
func (s *HabitService) CompleteHabit(ctx context.Context, user *internal.User, habitID string, req *CompleteHabitRequest) (*internal.CompletionRecord, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserHabit(ctx, habitID, user.ID); err != nil {
		return nil, err
	}

	date := req.Date
	if date == "" {
		today, err := s.clock.Today(user.Timezone)
		if err != nil {
			return nil, err
		}
		date = today
	}

	completion := &internal.CompletionRecord{
		ID:            uuid.NewString(),
		HabitID:       habitID,
		CompletedDate: date,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
	}
	if err := s.store.CreateCompletion(ctx, completion); err != nil {
		return nil, err
	}
	if _, err := s.streaks.RecalculateStreak(ctx, habitID); err != nil {
		return nil, err
	}
	return completion, nil
}

// UncompleteHabit removes the completion for a date and recomputes.
// Deleting a date that was never completed is a no-op, matching the
// idempotent delete the store exposes.
func (s *HabitService) UncompleteHabit(ctx context.Context, user *internal.User, habitID, date string) error {
	if _, err := s.store.GetUserHabit(ctx, habitID, user.ID); err != nil {
		return err
	}
	if _, err := dateutil.ParseDate(date); err != nil {
		return err
	}
	if err := s.store.DeleteCompletion(ctx, habitID, date); err != nil {
		return err
	}
	_, err := s.streaks.RecalculateStreak(ctx, habitID)
	return err
}

func (s *HabitService) GetHabitHistory(ctx context.Context, user *internal.User, habitID string, limit int) ([]internal.CompletionRecord, error) {
	if _, err := s.store.GetUserHabit(ctx, habitID, user.ID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.ListCompletions(ctx, habitID, limit)
}

// GetHabitStreak is the cached streak read for a single habit, after an
// ownership check.
func (s *HabitService) GetHabitStreak(ctx context.Context, user *internal.User, habitID string) (*internal.StreakSummary, error) {
	if _, err := s.store.GetUserHabit(ctx, habitID, user.ID); err != nil {
		return nil, err
	}
	return s.streaks.GetStreak(ctx, habitID)
}
