package config

import (
	"log/slog"
	"strings"
)

type AppConfig struct {
	Name     string `env:"APP_NAME, default=Presentation Evaluator"`
	Env      string `env:"APP_ENV, default=development"`
	Port     string `env:"APP_PORT, default=5000"`
	BaseURL  string `env:"APP_URL"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BodyLimitMB caps multipart uploads; both files count against it.
	BodyLimitMB int `env:"APP_BODY_LIMIT_MB, default=50"`

	// Requests per minute per client, for all routes and for POST /api/evaluate.
	RateLimit         int `env:"APP_RATE_LIMIT, default=120"`
	EvaluateRateLimit int `env:"APP_EVALUATE_RATE_LIMIT, default=10"`
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ListenAddr accepts both "5000" and ":5000".
func (c AppConfig) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c AppConfig) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
