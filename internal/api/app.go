package api

import (
	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/service"
)

type App interface {
	Logger() internal.Logger
	Habits() *service.HabitService
	Streaks() *service.StreakService
	Analytics() *service.AnalyticsService
}

type app struct {
	logger    internal.Logger
	habits    *service.HabitService
	streaks   *service.StreakService
	analytics *service.AnalyticsService
}

func NewApp(logger internal.Logger, habits *service.HabitService, streaks *service.StreakService, analytics *service.AnalyticsService) App {
	return &app{logger: logger, habits: habits, streaks: streaks, analytics: analytics}
}

func (a *app) Logger() internal.Logger              { return a.logger }
func (a *app) Habits() *service.HabitService        { return a.habits }
func (a *app) Streaks() *service.StreakService      { return a.streaks }
func (a *app) Analytics() *service.AnalyticsService { return a.analytics }
