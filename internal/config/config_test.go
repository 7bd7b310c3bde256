package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "phantomid.db", cfg.DatabaseURL)
	assert.Equal(t, "file://migrations", cfg.Migrations)
	assert.Equal(t, 168*time.Hour, cfg.SessionLife)
	assert.False(t, cfg.Discord.Enabled())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("PHANTOMID_DB_DRIVER", "Postgres")
	t.Setenv("PHANTOMID_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PHANTOMID_LOG_LEVEL", "debug")
	t.Setenv("DISCORD_KEY", "key")
	t.Setenv("DISCORD_SECRET", "secret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Discord.Enabled())

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"driver", "PHANTOMID_DB_DRIVER", "mysql"},
		{"log level", "PHANTOMID_LOG_LEVEL", "loud"},
		{"log format", "PHANTOMID_LOG_FORMAT", "xml"},
		{"duration", "PHANTOMID_SESSION_LIFETIME", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}
