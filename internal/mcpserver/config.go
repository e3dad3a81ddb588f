package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Listing defaults.
	ListLimit       int
	ListDetailLimit int
	MaxLimit        int

	// Validate tool defaults.
	ValidateStrict     bool
	ValidateNoWarnings bool

	// MaxInlineSize caps the content input in bytes.
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APICONTRACT_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("APICONTRACT_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("APICONTRACT_CACHE_MAX_SIZE", 10),
		CacheTTL:           envDuration("APICONTRACT_CACHE_TTL", 15*time.Minute),
		ListLimit:          envInt("APICONTRACT_LIST_LIMIT", 100),
		ListDetailLimit:    envInt("APICONTRACT_LIST_DETAIL_LIMIT", 25),
		MaxLimit:           envInt("APICONTRACT_MAX_LIMIT", 1000),
		ValidateStrict:     envBool("APICONTRACT_VALIDATE_STRICT", false),
		ValidateNoWarnings: envBool("APICONTRACT_VALIDATE_NO_WARNINGS", false),
		MaxInlineSize:      int64(envInt("APICONTRACT_MAX_INLINE_SIZE", 1<<20)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
