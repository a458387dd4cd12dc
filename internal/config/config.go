package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: nothing; both binaries must start against a local mock API
// - default: values matching the reference front end (5s polling, 3s carousel)
// -----------------------------------------------------------------------------

// Client configures the hotelview CLI. Every variable carries the HOTELVIEW_
// prefix in its tag so nested sections resolve through the tag alone.
type Client struct {
	API      APIConfig
	Poll     PollConfig
	Carousel CarouselConfig
	Search   SearchConfig
	Log      LogConfig
}

type APIConfig struct {
	URL     string        `envconfig:"HOTELVIEW_API_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"HOTELVIEW_HTTP_TIMEOUT" default:"10s"`
}

type PollConfig struct {
	Delay       time.Duration `envconfig:"HOTELVIEW_POLL_DELAY" default:"5s"`
	MaxAttempts int           `envconfig:"HOTELVIEW_POLL_MAX_ATTEMPTS" default:"60"`
	MaxFailures int           `envconfig:"HOTELVIEW_POLL_MAX_FAILURES" default:"3"`
}

type CarouselConfig struct {
	Interval time.Duration `envconfig:"HOTELVIEW_CAROUSEL_INTERVAL" default:"3s"`
}

type SearchConfig struct {
	CacheTTL time.Duration `envconfig:"HOTELVIEW_SEARCH_CACHE_TTL" default:"30s"`
	Limit    int           `envconfig:"HOTELVIEW_SEARCH_LIMIT" default:"40"`
}

type LogConfig struct {
	Level string `envconfig:"HOTELVIEW_LOG_LEVEL" default:"info"`
	File  string `envconfig:"HOTELVIEW_LOG_FILE"`
}

// MockAPI configures the bookingapi server. Variables use the BOOKINGAPI_ prefix.
type MockAPI struct {
	Port          string        `envconfig:"PORT" default:"5000"`
	PendingRounds int           `envconfig:"PENDING_ROUNDS" default:"2"`
	RateLimit     int           `envconfig:"RATE_LIMIT" default:"120"`
	RateWindow    time.Duration `envconfig:"RATE_WINDOW" default:"1m"`
	AllowOrigins  []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`

	// Latency, Jitter and FailureRate simulate a slow, flaky upstream.
	Latency     time.Duration `envconfig:"LATENCY" default:"0s"`
	Jitter      time.Duration `envconfig:"JITTER" default:"0s"`
	FailureRate float64       `envconfig:"FAILURE_RATE" default:"0"`
}

// LoadClient reads the client configuration from the environment.
func LoadClient() (Client, error) {
	var cfg Client
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// LoadMockAPI reads the mock API configuration from the environment.
func LoadMockAPI() (MockAPI, error) {
	var cfg MockAPI
	if err := envconfig.Process("bookingapi", &cfg); err != nil {
		return MockAPI{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.PendingRounds < 0 {
		return MockAPI{}, fmt.Errorf("pending rounds must be >= 0, got %d", cfg.PendingRounds)
	}
	if cfg.FailureRate < 0 || cfg.FailureRate > 1 {
		return MockAPI{}, fmt.Errorf("failure rate must be within [0, 1], got %g", cfg.FailureRate)
	}
	return cfg, nil
}

func (c Client) validate() error {
	if c.Poll.Delay <= 0 {
		return fmt.Errorf("poll delay must be positive, got %s", c.Poll.Delay)
	}
	if c.Poll.MaxAttempts < 0 {
		return fmt.Errorf("poll max attempts must be >= 0, got %d", c.Poll.MaxAttempts)
	}
	if c.Poll.MaxFailures < 1 {
		return fmt.Errorf("poll max failures must be >= 1, got %d", c.Poll.MaxFailures)
	}
	if c.Carousel.Interval < 0 {
		return fmt.Errorf("carousel interval must be >= 0, got %s", c.Carousel.Interval)
	}
	return nil
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewTestClient returns a client configuration with short delays for tests.
func NewTestClient(apiURL string) Client {
	return Client{
		API:      APIConfig{URL: apiURL, Timeout: 2 * time.Second},
		Poll:     PollConfig{Delay: 10 * time.Millisecond, MaxAttempts: 10, MaxFailures: 3},
		Carousel: CarouselConfig{Interval: 20 * time.Millisecond},
		Search:   SearchConfig{CacheTTL: time.Minute, Limit: 40},
		Log:      LogConfig{Level: "debug"},
	}
}
