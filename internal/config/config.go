package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the scraper.
type Config struct {
	DataDir       string
	Concurrency   int
	Browser       BrowserConfig
	Retry         RetryConfig
	RateLimit     RateLimitConfig
	WatchInterval time.Duration
}

// BrowserConfig controls the driven browser.
type BrowserConfig struct {
	Headless    bool
	UserAgent   string
	NavTimeout  time.Duration // per-navigation budget
	InstallDeps bool          // download the browser bundle on startup
}

// RetryConfig controls detail-page retries.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration // grows linearly per attempt
}

// RateLimitConfig controls the per-host politeness limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	DataDir       string       `yaml:"data_dir"`
	Concurrency   int          `yaml:"concurrency"`
	Browser       rawBrowser   `yaml:"browser"`
	Retry         rawRetry     `yaml:"retry"`
	RateLimit     rawRateLimit `yaml:"rate_limit"`
	WatchInterval string       `yaml:"watch_interval"`
}

type rawBrowser struct {
	Headless    *bool  `yaml:"headless"`
	UserAgent   string `yaml:"user_agent"`
	NavTimeout  string `yaml:"nav_timeout"`
	InstallDeps bool   `yaml:"install_deps"`
}

type rawRetry struct {
	Attempts  int    `yaml:"attempts"`
	BaseDelay string `yaml:"base_delay"`
}

type rawRateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		DataDir:     "data",
		Concurrency: 5,
		Browser: BrowserConfig{
			Headless:   true,
			UserAgent:  defaultUserAgent,
			NavTimeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			Attempts:  3,
			BaseDelay: 2 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		WatchInterval: 6 * time.Hour,
	}
}

// Load reads the YAML config at path on top of the defaults, validates it,
// and returns the result. A .env file next to the working directory is
// loaded first so ${VAR} references in the YAML resolve.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit config errors are not.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}
	if raw.Concurrency != 0 {
		cfg.Concurrency = raw.Concurrency
	}
	if raw.Browser.Headless != nil {
		cfg.Browser.Headless = *raw.Browser.Headless
	}
	if raw.Browser.UserAgent != "" {
		cfg.Browser.UserAgent = raw.Browser.UserAgent
	}
	cfg.Browser.InstallDeps = raw.Browser.InstallDeps
	if raw.Browser.NavTimeout != "" {
		cfg.Browser.NavTimeout, err = time.ParseDuration(raw.Browser.NavTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse browser.nav_timeout %q: %w", raw.Browser.NavTimeout, err)
		}
	}
	if raw.Retry.Attempts != 0 {
		cfg.Retry.Attempts = raw.Retry.Attempts
	}
	if raw.Retry.BaseDelay != "" {
		cfg.Retry.BaseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}
	if raw.RateLimit.RequestsPerSecond != 0 {
		cfg.RateLimit.RequestsPerSecond = raw.RateLimit.RequestsPerSecond
	}
	if raw.RateLimit.Burst != 0 {
		cfg.RateLimit.Burst = raw.RateLimit.Burst
	}
	if raw.WatchInterval != "" {
		cfg.WatchInterval, err = time.ParseDuration(raw.WatchInterval)
		if err != nil {
			return nil, fmt.Errorf("parse watch_interval %q: %w", raw.WatchInterval, err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}
	if cfg.Retry.Attempts <= 0 {
		return fmt.Errorf("retry.attempts must be positive, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay must not be negative, got %v", cfg.Retry.BaseDelay)
	}
	if cfg.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be positive, got %v", cfg.Browser.NavTimeout)
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be positive, got %v", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be positive, got %d", cfg.RateLimit.Burst)
	}
	if cfg.WatchInterval < time.Minute {
		return fmt.Errorf("watch_interval must be at least 1m, got %v", cfg.WatchInterval)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}
