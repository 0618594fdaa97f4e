package logger

import (
	"io"
	"os"

	"osplits/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New(cfg *config.Config) zerolog.Logger {
	logger := WithLevel(os.Stdout, ParseLevel(cfg.LogLevel))

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("cache_ttl", cfg.CacheTTL).
		Dur("fetch_timeout", cfg.FetchTimeout).
		Bool("dotenv", cfg.FromDotEnv).
		Msg("configuration loaded")

	return logger
}

// WithLevel builds the JSON logger used by the server.
func WithLevel(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}

// Console is the human-readable logger for command-line tools.
func Console(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger().
		Level(level)
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Provide(New)
