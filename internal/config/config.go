package config

import (
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server settings read from the environment.
type Config struct {
	HTTPAddr          string
	RedisAddr         string
	SQLitePath        string
	JWTSecret         string
	OTLPEndpoint      string // empty disables OTLP export
	StdoutTraces      bool
	DefaultDifficulty bot.Difficulty
	BotThinkDelay     time.Duration
	SessionTTL        time.Duration
	ReconnectGrace    time.Duration
	WebDir            string
	LogLevel          slog.Level
	LogFormat         string // text or json
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		HTTPAddr:          ":8080",
		RedisAddr:         "localhost:6379",
		SQLitePath:        "./master.db",
		JWTSecret:         "my_super_secret_key",
		DefaultDifficulty: bot.Easy,
		BotThinkDelay:     300 * time.Millisecond,
		SessionTTL:        24 * time.Hour,
		ReconnectGrace:    60 * time.Second,
		WebDir:            "./web",
		LogLevel:          slog.LevelInfo,
		LogFormat:         "text",
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup, so tests can supply a map.
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("REDIS_CONNSTRING", &cfg.RedisAddr)
	str("SQLITE_PATH", &cfg.SQLitePath)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.OTLPEndpoint)
	str("WEB_DIR", &cfg.WebDir)

	if v, ok := lookup("OTEL_STDOUT_TRACES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("OTEL_STDOUT_TRACES: %w", err)
		}
		cfg.StdoutTraces = b
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		switch v = strings.ToLower(v); v {
		case "text", "json":
			cfg.LogFormat = v
		default:
			return Config{}, fmt.Errorf("LOG_FORMAT: unknown format %q", v)
		}
	}

	if v, ok := lookup("DEFAULT_DIFFICULTY"); ok && v != "" {
		d, err := bot.ParseDifficulty(v)
		if err != nil {
			return Config{}, fmt.Errorf("DEFAULT_DIFFICULTY: %w", err)
		}
		cfg.DefaultDifficulty = d
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"BOT_THINK_DELAY", &cfg.BotThinkDelay},
		{"SESSION_TTL", &cfg.SessionTTL},
		{"RECONNECT_GRACE", &cfg.ReconnectGrace},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if parsed < 0 {
			return Config{}, fmt.Errorf("%s: must not be negative", d.key)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
