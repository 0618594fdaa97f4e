package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	DBPath         string
	ServerPort     string
	LogLevel       string
	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	MaxUploadBytes int
	AllowedOrigins []string
	// loaded from a .env file rather than the process environment
	FromDotEnv bool
}

func Load() (*Config, error) {
	fromDotEnv := godotenv.Load() == nil

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "osplits.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CacheTTL:       getDurationEnv("CACHE_TTL", 10*time.Minute),
		FetchTimeout:   getDurationEnv("FETCH_TIMEOUT", 10*time.Second),
		MaxUploadBytes: getIntEnv("MAX_UPLOAD_BYTES", 8<<20),
		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "*")),
		FromDotEnv:     fromDotEnv,
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return nil, &InvalidSettingError{Key: "SERVER_PORT", Value: cfg.ServerPort}
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, &InvalidSettingError{Key: "MAX_UPLOAD_BYTES", Value: strconv.Itoa(cfg.MaxUploadBytes)}
	}

	return cfg, nil
}

type InvalidSettingError struct {
	Key   string
	Value string
}

func (e *InvalidSettingError) Error() string {
	return "invalid " + e.Key + ": " + strconv.Quote(e.Value)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var Module = fx.Provide(Load)
