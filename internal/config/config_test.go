package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
data_dir: out
concurrency: 8
browser:
  headless: false
  nav_timeout: 45s
retry:
  attempts: 5
  base_delay: 1s
rate_limit:
  requests_per_second: 0.5
  burst: 2
watch_interval: 2h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "out" {
		t.Errorf("DataDir = %q, want out", cfg.DataDir)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.Browser.Headless {
		t.Error("Headless should be overridden to false")
	}
	if cfg.Browser.NavTimeout != 45*time.Second {
		t.Errorf("NavTimeout = %v, want 45s", cfg.Browser.NavTimeout)
	}
	if cfg.Retry.Attempts != 5 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.RateLimit.RequestsPerSecond != 0.5 || cfg.RateLimit.Burst != 2 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.WatchInterval != 2*time.Hour {
		t.Errorf("WatchInterval = %v, want 2h", cfg.WatchInterval)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
data_dir: data
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Concurrency != def.Concurrency {
		t.Errorf("Concurrency = %d, want default %d", cfg.Concurrency, def.Concurrency)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.Browser.UserAgent == "" {
		t.Error("UserAgent default missing")
	}
	if cfg.Retry.Attempts != def.Retry.Attempts {
		t.Errorf("Retry.Attempts = %d, want default %d", cfg.Retry.Attempts, def.Retry.Attempts)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "concurrency: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
retry:
  base_delay: soon
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for unparseable duration")
	}
}

func TestLoad_NegativeConcurrency(t *testing.T) {
	path := writeConfig(t, `
concurrency: -3
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected validation error for negative concurrency")
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SCRAPER_DATA_DIR", "env-data")
	path := writeConfig(t, `
data_dir: ${SCRAPER_DATA_DIR}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "env-data" {
		t.Errorf("DataDir = %q, want env-data", cfg.DataDir)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
