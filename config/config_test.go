package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2*time.Minute, cfg.TeamStatsTTL)
	assert.Equal(t, "@every 1m", cfg.SleepReminderSpec)
	assert.Equal(t, 5, cfg.RateLimitRPS)

	dsn := cfg.DSN()
	assert.True(t, strings.HasPrefix(dsn, "host=localhost user=postgres password=pw dbname=healthplus"))
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
}
