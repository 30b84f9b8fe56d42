package config

import (
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, bot.Easy, cfg.DefaultDifficulty)
	assert.Equal(t, 300*time.Millisecond, cfg.BotThinkDelay)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(lookupMap(map[string]string{
		"HTTP_ADDR":                   ":9090",
		"REDIS_CONNSTRING":            "redis:6379",
		"SQLITE_PATH":                 "/tmp/ttt.db",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "otel-collector:4317",
		"OTEL_STDOUT_TRACES":          "true",
		"DEFAULT_DIFFICULTY":          "Hard",
		"BOT_THINK_DELAY":             "0s",
		"RECONNECT_GRACE":             "5s",
		"LOG_LEVEL":                   "debug",
		"LOG_FORMAT":                  "JSON",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "/tmp/ttt.db", cfg.SQLitePath)
	assert.Equal(t, "otel-collector:4317", cfg.OTLPEndpoint)
	assert.True(t, cfg.StdoutTraces)
	assert.Equal(t, bot.Hard, cfg.DefaultDifficulty)
	assert.Zero(t, cfg.BotThinkDelay)
	assert.Equal(t, 5*time.Second, cfg.ReconnectGrace)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"difficulty": {"DEFAULT_DIFFICULTY": "medium"},
		"duration":   {"BOT_THINK_DELAY": "soon"},
		"negative":   {"SESSION_TTL": "-1h"},
		"bool":       {"OTEL_STDOUT_TRACES": "maybe"},
		"log level":  {"LOG_LEVEL": "loud"},
		"log format": {"LOG_FORMAT": "xml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(lookupMap(env))
			assert.Error(t, err)
		})
	}
}
