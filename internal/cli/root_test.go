package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/crawl-gate/internal/config"
)

func TestInitConfigNoFlags(t *testing.T) {
	ResetFlags()

	cfg, err := InitConfigWithError()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault().Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.UserAgent() != defaultCfg.UserAgent() {
		t.Errorf("expected UserAgent %s, got %s", defaultCfg.UserAgent(), cfg.UserAgent())
	}
	if cfg.CacheSize() != defaultCfg.CacheSize() {
		t.Errorf("expected CacheSize %d, got %d", defaultCfg.CacheSize(), cfg.CacheSize())
	}
	if cfg.CacheTTL() != defaultCfg.CacheTTL() {
		t.Errorf("expected CacheTTL %v, got %v", defaultCfg.CacheTTL(), cfg.CacheTTL())
	}
	if cfg.DefaultCrawlDelay() != defaultCfg.DefaultCrawlDelay() {
		t.Errorf("expected DefaultCrawlDelay %v, got %v", defaultCfg.DefaultCrawlDelay(), cfg.DefaultCrawlDelay())
	}
}

func TestInitConfigFlagOverrides(t *testing.T) {
	ResetFlags()
	defer ResetFlags()

	userAgent = "FlagBot/1.0"
	cacheSize = 42
	cacheTTL = 2 * time.Hour
	defaultCrawlDelay = 3 * time.Second
	logLevel = "debug"

	cfg, err := InitConfigWithError()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.UserAgent() != "FlagBot/1.0" {
		t.Errorf("expected UserAgent FlagBot/1.0, got %s", cfg.UserAgent())
	}
	if cfg.CacheSize() != 42 {
		t.Errorf("expected CacheSize 42, got %d", cfg.CacheSize())
	}
	if cfg.CacheTTL() != 2*time.Hour {
		t.Errorf("expected CacheTTL 2h, got %v", cfg.CacheTTL())
	}
	if cfg.DefaultCrawlDelay() != 3*time.Second {
		t.Errorf("expected DefaultCrawlDelay 3s, got %v", cfg.DefaultCrawlDelay())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("expected LogLevel debug, got %s", cfg.LogLevel())
	}
}

func TestInitConfigFromFileWithFlagOverride(t *testing.T) {
	ResetFlags()
	defer ResetFlags()

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"userAgent": "FileBot/1.0", "cacheSize": 10}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfgFile = path
	userAgent = "FlagBot/2.0" // flags win over file values

	cfg, err := InitConfigWithError()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.UserAgent() != "FlagBot/2.0" {
		t.Errorf("expected flag override FlagBot/2.0, got %s", cfg.UserAgent())
	}
	if cfg.CacheSize() != 10 {
		t.Errorf("expected CacheSize 10 from file, got %d", cfg.CacheSize())
	}
}

func TestInitConfigMissingFile(t *testing.T) {
	ResetFlags()
	defer ResetFlags()

	cfgFile = filepath.Join(t.TempDir(), "does-not-exist.json")

	_, err := InitConfigWithError()
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got %v", err)
	}
}
