package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Fixtures  FixturesConfig
	MCP       MCPConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls how pages are downloaded from the site.
type FetchConfig struct {
	// BaseURL is prepended to relative identifiers.
	BaseURL string // default: "https://www.procyclingstats.com/"

	// Timeout is the per-page deadline.
	Timeout time.Duration // default: 30s

	// MaxTimeout caps the timeout a client may request.
	MaxTimeout time.Duration // default: 120s

	// RequestsPerSecond throttles outgoing requests; 0 disables throttling.
	RequestsPerSecond float64 // default: 1

	// Burst is the number of requests allowed back to back.
	Burst int // default: 2

	// MaxBody caps the size of a downloaded page in bytes.
	MaxBody int64 // default: 10 MiB

	// UserAgent overrides the browser user agent.
	UserAgent string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting of the API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// FixturesConfig controls the on-disk fixture store.
type FixturesConfig struct {
	// Dir holds recorded pages and their expected data.
	Dir string // default: "testdata"

	// Replay serves recorded pages before going to the network.
	Replay bool // default: false
}

// MCPConfig tells the MCP server where the API lives.
type MCPConfig struct {
	APIURL string // default: "http://127.0.0.1:8080"
	APIKey string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first; variables already
// set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("PCS_HOST", "0.0.0.0"),
			Port: envIntOr("PCS_PORT", 8080),
			Mode: envOr("PCS_MODE", "release"),
		},
		Fetch: FetchConfig{
			BaseURL:           envOr("PCS_BASE_URL", "https://www.procyclingstats.com/"),
			Timeout:           envDurationOr("PCS_FETCH_TIMEOUT", 30*time.Second),
			MaxTimeout:        envDurationOr("PCS_MAX_TIMEOUT", 120*time.Second),
			RequestsPerSecond: envFloatOr("PCS_FETCH_RPS", 1.0),
			Burst:             envIntOr("PCS_FETCH_BURST", 2),
			MaxBody:           int64(envIntOr("PCS_MAX_BODY", 10<<20)),
			UserAgent:         os.Getenv("PCS_USER_AGENT"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PCS_AUTH_ENABLED", true),
			APIKeys: envSliceOr("PCS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PCS_RATE_RPS", 5.0),
			Burst:             envIntOr("PCS_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("PCS_LOG_LEVEL", "info"),
			Format: envOr("PCS_LOG_FORMAT", "json"),
		},
		Fixtures: FixturesConfig{
			Dir:    envOr("PCS_FIXTURES_DIR", "testdata"),
			Replay: envBoolOr("PCS_FIXTURES_REPLAY", false),
		},
		MCP: MCPConfig{
			APIURL: envOr("PCS_API_URL", "http://127.0.0.1:8080"),
			APIKey: os.Getenv("PCS_API_KEY"),
		},
	}
}

// ClampTimeout returns the requested timeout bounded by MaxTimeout, or the
// default Timeout when none was requested.
func (c FetchConfig) ClampTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return c.Timeout
	}
	d := time.Duration(seconds) * time.Second
	if c.MaxTimeout > 0 && d > c.MaxTimeout {
		return c.MaxTimeout
	}
	return d
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
