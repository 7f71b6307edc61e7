package storage

import (
	"fmt"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/config"
)

// Store is the full durable-store surface the services consume.
type Store interface {
	HabitRepository
	CompletionRepository
	StreakRepository
	UserRepository
	Close() error
}

func New(cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "postgres":
		return NewPostgresStorage(cfg.DBDSN, logger)
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.DBType)
	}
}
