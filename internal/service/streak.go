package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/cache"
	"github.com/yourname/habittracker/internal/dateutil"
	"github.com/yourname/habittracker/internal/storage"
	"github.com/yourname/habittracker/internal/streak"
)

// StreakService orchestrates the streak engine: read-through caching over the
// durable summaries, recomputation from completion history, and the admin
// bulk recompute. Every collaborator is injected; nothing here reaches into
// process-wide state.
type StreakService struct {
	store        storage.Store
	cache        cache.Cache
	clock        dateutil.Clock
	ttl          time.Duration
	weekStartsOn time.Weekday
	logger       internal.Logger
}

func NewStreakService(store storage.Store, c cache.Cache, clock dateutil.Clock, ttl time.Duration, weekStartsOn time.Weekday, logger internal.Logger) *StreakService {
	return &StreakService{
		store:        store,
		cache:        c,
		clock:        clock,
		ttl:          ttl,
		weekStartsOn: weekStartsOn,
		logger:       logger,
	}
}

// GetStreak returns the habit's streak summary, serving from cache when
// possible and recomputing from the durable store on a miss. Concurrent
// misses for the same habit may recompute redundantly; the computation is
// pure and the upserts are last-writer-wins, so no serialization is done.
//
// Known window: between a write's invalidation and its recompute, a
// concurrent reader may cache a summary that predates the write. The entry
// still expires by TTL and the durable record is corrected by the writer's
// own recompute.
func (s *StreakService) GetStreak(ctx context.Context, habitID string) (*internal.StreakSummary, error) {
	key := cache.StreakKey(habitID)
	raw, err := s.cache.Get(ctx, key)
	if err == nil {
		var summary internal.StreakSummary
		if jsonErr := json.Unmarshal(raw, &summary); jsonErr == nil {
			return &summary, nil
		}
		s.logger.Warnf("streak: dropping undecodable cache entry for habit %s", habitID)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache trouble degrades to a recompute, never to a failed read.
		s.logger.Warnf("streak: cache get failed for habit %s: %v", habitID, err)
	}
	return s.recompute(ctx, habitID)
}

// InvalidateStreak drops the cached summary for a habit. Callers that wrote a
// completion or changed the policy must invalidate before the next read.
// Backend failures are logged and swallowed so the caller's write succeeds;
// the entry is still bounded by its TTL.
func (s *StreakService) InvalidateStreak(ctx context.Context, habitID string) {
	if err := s.cache.Delete(ctx, cache.StreakKey(habitID)); err != nil {
		s.logger.Warnf("streak: cache invalidate failed for habit %s: %v", habitID, err)
	}
}

// RecalculateStreak forces a fresh computation: invalidate, then recompute
// synchronously. Used after completion writes and policy changes.
func (s *StreakService) RecalculateStreak(ctx context.Context, habitID string) (*internal.StreakSummary, error) {
	s.InvalidateStreak(ctx, habitID)
	return s.recompute(ctx, habitID)
}

// RecalculateAllStreaks recomputes every non-archived habit. Individual
// failures are logged and skipped; the batch never aborts. Returns the number
// of habits successfully recomputed. Administrative use only.
func (s *StreakService) RecalculateAllStreaks(ctx context.Context) (int, error) {
	habits, err := s.store.ListActiveHabits(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, h := range habits {
		if _, err := s.RecalculateStreak(ctx, h.ID); err != nil {
			s.logger.Errorf("streak: recalculate failed for habit %s: %v", h.ID, err)
			continue
		}
		count++
	}
	s.logger.Infof("streak: recalculated %d of %d habits", count, len(habits))
	return count, nil
}

// recompute loads the habit, its owner's timezone, and the full completion
// history, runs the pure computation, and writes the result to the durable
// summary and then the cache. Safe to run concurrently with itself.
func (s *StreakService) recompute(ctx context.Context, habitID string) (*internal.StreakSummary, error) {
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, habit.UserID)
	if err != nil {
		return nil, err
	}
	today, err := s.clock.Today(user.Timezone)
	if err != nil {
		return nil, err
	}
	dates, err := s.store.ListCompletionDates(ctx, habitID)
	if err != nil {
		return nil, err
	}

	res, err := streak.Compute(dates, habit.Frequency, today, s.weekStartsOn)
	if err != nil {
		return nil, err
	}
	summary := &internal.StreakSummary{
		HabitID:       habitID,
		CurrentStreak: res.Current,
		LongestStreak: res.Longest,
	}
	if last := streak.LastCompleted(dates); last != "" {
		summary.LastCompletedDate = &last
	}

	if err := s.store.UpsertStreakSummary(ctx, summary); err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, cache.StreakKey(habitID), raw, s.ttl); err != nil {
			s.logger.Warnf("streak: cache set failed for habit %s: %v", habitID, err)
		}
	}
	return summary, nil
}
