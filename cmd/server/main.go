package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/api"
	"github.com/yourname/habittracker/internal/auth"
	"github.com/yourname/habittracker/internal/cache"
	"github.com/yourname/habittracker/internal/config"
	"github.com/yourname/habittracker/internal/dateutil"
	"github.com/yourname/habittracker/internal/service"
	"github.com/yourname/habittracker/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := internal.NewLogger(cfg.Env, cfg.LogLevel, cfg.LogFile)

	store, err := storage.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	c, err := cache.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init cache: %v", err)
	}
	defer c.Close()

	if cfg.Env == "development" {
		seedDemoUser(store, cfg, logger)
	}

	clock := dateutil.SystemClock{}
	streaks := service.NewStreakService(store, c, clock, cfg.StreakTTL, cfg.WeekStartsOn, logger)
	habits := service.NewHabitService(store, streaks, clock, logger)
	analytics := service.NewAnalyticsService(store, clock, logger)
	app := api.NewApp(logger, habits, streaks, analytics)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestIDMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	provider := auth.NewProvider(cfg, store, logger)
	protected := r.Group("/api")
	protected.Use(auth.Middleware(provider))
	protected.POST("/habits", api.PostHabit(app))
	protected.GET("/habits", api.GetHabits(app))
	protected.GET("/habits/:id", api.GetHabit(app))
	protected.PUT("/habits/:id", api.PutHabit(app))
	protected.DELETE("/habits/:id", api.DeleteHabit(app))
	protected.POST("/habits/:id/completions", api.PostCompletion(app))
	protected.DELETE("/habits/:id/completions/:date", api.DeleteCompletion(app))
	protected.GET("/habits/:id/history", api.GetHabitHistory(app))
	protected.GET("/habits/:id/streak", api.GetHabitStreak(app))
	protected.GET("/habits/:id/analytics", api.GetHabitAnalytics(app))
	protected.GET("/stats", api.GetUserStats(app))

	admin := r.Group("/admin")
	admin.Use(api.AdminMiddleware(cfg.AdminToken))
	admin.POST("/streaks/recalculate", api.PostRecalculateStreaks(app))
	admin.GET("/stats", api.GetSystemStats(app))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logger.Infof("Server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}
}

// seedDemoUser makes local development usable out of the box: the configured
// API token resolves to a demo account when the database is empty.
func seedDemoUser(store storage.Store, cfg *config.Config, logger internal.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := store.CountUsers(ctx)
	if err != nil || count > 0 {
		return
	}
	user := &internal.User{
		ID:       uuid.NewString(),
		Email:    "demo@example.com",
		Name:     "Demo User",
		Timezone: "UTC",
		Token:    cfg.APIToken,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		logger.Warnf("failed to seed demo user: %v", err)
		return
	}
	logger.Infof("seeded demo user %s", user.ID)
}
