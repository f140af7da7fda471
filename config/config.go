package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName            = "cinema-booking-cli"
	defaultAPIURL      = "http://localhost:8000/api"
	defaultHTTPTimeout = 12 * time.Second
	defaultMaxSeats    = 5
	defaultCacheTTL    = 10 * time.Minute
	defaultLogLevel    = "info"
)

// Config holds runtime settings read from the environment (and an optional
// .env file in the working directory).
type Config struct {
	APIURL        string
	HTTPTimeout   time.Duration
	MaxSeats      int
	CacheTTL      time.Duration
	LogLevel      string
	LogFile       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration. Invalid values fall back to defaults; each
// fallback is returned as a warning so the caller can log it.
func Load() (Config, []string) {
	var warnings []string
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("read .env: %v", err))
	}

	cfg := Config{
		APIURL:        strings.TrimRight(getenv("BOOKING_API_URL", defaultAPIURL), "/"),
		LogLevel:      getenv("BOOKING_LOG_LEVEL", defaultLogLevel),
		LogFile:       os.Getenv("BOOKING_LOG_FILE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var warn string
	cfg.HTTPTimeout, warn = durationEnv("BOOKING_HTTP_TIMEOUT", defaultHTTPTimeout)
	warnings = appendWarning(warnings, warn)
	cfg.CacheTTL, warn = durationEnv("BOOKING_CACHE_TTL", defaultCacheTTL)
	warnings = appendWarning(warnings, warn)
	cfg.MaxSeats, warn = positiveIntEnv("BOOKING_MAX_SEATS", defaultMaxSeats)
	warnings = appendWarning(warnings, warn)
	cfg.RedisDB, warn = intEnv("REDIS_DB", 0)
	warnings = appendWarning(warnings, warn)

	if cfg.LogFile == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.LogFile = filepath.Join(dir, AppName, "app.log")
		} else {
			cfg.LogFile = filepath.Join(os.TempDir(), AppName+".log")
		}
	}
	return cfg, warnings
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, string) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, ""
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def, fmt.Sprintf("invalid %s %q, using %s", key, raw, def)
	}
	return d, ""
}

func positiveIntEnv(key string, def int) (int, string) {
	n, warn := intEnv(key, def)
	if warn != "" {
		return n, warn
	}
	if n < 1 {
		return def, fmt.Sprintf("invalid %s %d, using %d", key, n, def)
	}
	return n, ""
}

func intEnv(key string, def int) (int, string) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Sprintf("invalid %s %q, using %d", key, raw, def)
	}
	return n, ""
}

func appendWarning(warnings []string, warn string) []string {
	if warn == "" {
		return warnings
	}
	return append(warnings, warn)
}
