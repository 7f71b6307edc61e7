package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/habittracker/internal"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "store_test.db"), internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStorage, id string) *internal.User {
	t.Helper()
	u := &internal.User{ID: id, Email: id + "@example.com", Name: "User " + id, Timezone: "UTC", Token: "tok-" + id}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func seedHabit(t *testing.T, store *SQLiteStorage, userID string, policy internal.FrequencyPolicy) *internal.Habit {
	t.Helper()
	h := &internal.Habit{
		ID:        "h-" + userID + "-" + string(policy.Type),
		UserID:    userID,
		Name:      "Habit",
		Frequency: policy,
		Color:     "#000000",
		Icon:      "x",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateHabit(context.Background(), h))
	return h
}

func TestHabitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")

	policy := internal.FrequencyPolicy{Type: internal.FrequencyCustom, Days: []int{1, 3, 5}}
	habit := seedHabit(t, store, user.ID, policy)

	got, err := store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, habit.ID, got.ID)
	assert.Equal(t, policy, got.Frequency)
	assert.False(t, got.Archived)

	weekly := internal.FrequencyPolicy{Type: internal.FrequencyWeekly, Target: 3}
	got.Frequency = weekly
	got.Name = "Renamed"
	require.NoError(t, store.UpdateHabit(ctx, got))

	got, err = store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, weekly, got.Frequency)
	assert.Equal(t, "Renamed", got.Name)

	_, err = store.GetHabit(ctx, "missing")
	assert.ErrorIs(t, err, internal.ErrHabitNotFound)
}

func TestGetUserHabit_ScopedToOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "u1")
	seedUser(t, store, "u2")
	habit := seedHabit(t, store, owner.ID, internal.FrequencyPolicy{Type: internal.FrequencyDaily})

	_, err := store.GetUserHabit(ctx, habit.ID, owner.ID)
	require.NoError(t, err)
	_, err = store.GetUserHabit(ctx, habit.ID, "u2")
	assert.ErrorIs(t, err, internal.ErrHabitNotFound)
}

func TestArchiveFiltersLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	keep := seedHabit(t, store, user.ID, internal.FrequencyPolicy{Type: internal.FrequencyDaily})
	gone := seedHabit(t, store, user.ID, internal.FrequencyPolicy{Type: internal.FrequencyWeekly, Target: 2})

	require.NoError(t, store.ArchiveHabit(ctx, gone.ID))

	habits, err := store.ListUserHabits(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, keep.ID, habits[0].ID)

	active, err := store.ListActiveHabits(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	n, err := store.CountActiveHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, store.ArchiveHabit(ctx, "missing"), internal.ErrHabitNotFound)
}

func TestCompletions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	habit := seedHabit(t, store, user.ID, internal.FrequencyPolicy{Type: internal.FrequencyDaily})

	for i, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		require.NoError(t, store.CreateCompletion(ctx, &internal.CompletionRecord{
			ID: "c" + string(rune('a'+i)), HabitID: habit.ID, CompletedDate: date, CreatedAt: time.Now(),
		}))
	}

	err := store.CreateCompletion(ctx, &internal.CompletionRecord{
		ID: "dup", HabitID: habit.ID, CompletedDate: "2024-01-02", CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, internal.ErrDuplicateCompletion)

	dates, err := store.ListCompletionDates(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, dates)

	has, err := store.HasCompletion(ctx, habit.ID, "2024-01-02")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.DeleteCompletion(ctx, habit.ID, "2024-01-02"))
	has, err = store.HasCompletion(ctx, habit.ID, "2024-01-02")
	require.NoError(t, err)
	assert.False(t, has)

	// Deleting again is a no-op.
	assert.NoError(t, store.DeleteCompletion(ctx, habit.ID, "2024-01-02"))

	recs, err := store.ListCompletions(ctx, habit.ID, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2024-01-03", recs[0].CompletedDate)
}

func TestStreakSummaryUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	habit := seedHabit(t, store, user.ID, internal.FrequencyPolicy{Type: internal.FrequencyDaily})

	sum, err := store.GetStreakSummary(ctx, habit.ID)
	require.NoError(t, err)
	assert.Nil(t, sum)

	require.NoError(t, store.UpsertStreakSummary(ctx, &internal.StreakSummary{HabitID: habit.ID}))
	sum, err = store.GetStreakSummary(ctx, habit.ID)
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 0, sum.CurrentStreak)
	assert.Nil(t, sum.LastCompletedDate)

	last := "2024-01-05"
	require.NoError(t, store.UpsertStreakSummary(ctx, &internal.StreakSummary{
		HabitID: habit.ID, CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: &last,
	}))
	sum, err = store.GetStreakSummary(ctx, habit.ID)
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 4, sum.CurrentStreak)
	assert.Equal(t, 9, sum.LongestStreak)
	require.NotNil(t, sum.LastCompletedDate)
	assert.Equal(t, last, *sum.LastCompletedDate)
}

func TestUserLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	got, err = store.GetUserByToken(ctx, user.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.GetUserByToken(ctx, "bogus")
	assert.ErrorIs(t, err, internal.ErrUserNotFound)

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
