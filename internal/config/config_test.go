package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:          "development",
		DBType:       "sqlite",
		SQLitePath:   "data/test.db",
		CacheBackend: "memory",
		StreakTTL:    time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.DBType = "postgres"
	assert.Error(t, c.Validate())
	c.DBDSN = "postgres://localhost/habits"
	assert.NoError(t, c.Validate())

	c = validConfig()
	c.DBType = "mysql"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.CacheBackend = "redis"
	c.RedisAddr = ""
	assert.Error(t, c.Validate())
	c.RedisAddr = "localhost:6379"
	assert.NoError(t, c.Validate())

	// The in-process cache is a single-node convenience, never production.
	c = validConfig()
	c.Env = "production"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Env = "qa"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.StreakTTL = 0
	assert.Error(t, c.Validate())
}

func TestParseWeekday(t *testing.T) {
	assert.Equal(t, time.Sunday, parseWeekday("sunday"))
	assert.Equal(t, time.Sunday, parseWeekday("Sunday"))
	assert.Equal(t, time.Saturday, parseWeekday("saturday"))
	// Unknown names fall back to the default week start.
	assert.Equal(t, time.Monday, parseWeekday("someday"))
}
