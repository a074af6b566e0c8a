package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PLANNER_TIMEZONE", "")
	t.Setenv("PLANNER_LOCALE", "")
	t.Setenv("PLANNER_SESSION_TTL", "")
	t.Setenv("PLANNER_AUTO_MIGRATE", "")
	t.Setenv("PLANNER_DB_LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone.String())
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "warn", cfg.DBLogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PLANNER_TIMEZONE", "UTC")
	t.Setenv("PLANNER_LOCALE", "DE")
	t.Setenv("PLANNER_SESSION_TTL", "2h")
	t.Setenv("PLANNER_AUTO_MIGRATE", "false")
	t.Setenv("PLANNER_DB_LOG_LEVEL", "info")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "info", cfg.DBLogLevel)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("PLANNER_TIMEZONE", "Mars/Olympus")
	t.Setenv("PLANNER_LOCALE", "fr")
	t.Setenv("PLANNER_SESSION_TTL", "-1h")
	t.Setenv("PLANNER_AUTO_MIGRATE", "maybe")
	t.Setenv("PLANNER_DB_LOG_LEVEL", "loud")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "warn", cfg.DBLogLevel)
}
