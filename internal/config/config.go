package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	// Identity
	//===============
	// User agent sent in the request header and matched against robots.txt rules. In raw string
	userAgent string

	//===============
	// Policy cache
	//===============
	// Maximum number of domains whose parsed policies are cached
	cacheSize int
	// How long a cached policy stays valid before it is refetched
	cacheTTL time.Duration

	//===============
	// Politeness
	//===============
	// Delay enforced between requests to the same domain when the site
	// declares no Crawl-delay of its own
	defaultCrawlDelay time.Duration

	//===============
	// Logging
	//===============
	// Minimum level emitted by the structured log backend
	logLevel string
	// Directory for rotating log files. Empty means console only
	logDir string
}

type configDTO struct {
	UserAgent                string  `json:"userAgent,omitempty"`
	CacheSize                int     `json:"cacheSize,omitempty"`
	CacheTTLSeconds          int     `json:"cacheTtlSeconds,omitempty"`
	DefaultCrawlDelaySeconds float64 `json:"defaultCrawlDelaySeconds,omitempty"`
	LogLevel                 string  `json:"logLevel,omitempty"`
	LogDir                   string  `json:"logDir,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := *WithDefault()

	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.CacheSize != 0 {
		cfg.cacheSize = dto.CacheSize
	}
	if dto.CacheTTLSeconds != 0 {
		cfg.cacheTTL = time.Duration(dto.CacheTTLSeconds) * time.Second
	}
	if dto.DefaultCrawlDelaySeconds != 0 {
		cfg.defaultCrawlDelay = time.Duration(dto.DefaultCrawlDelaySeconds * float64(time.Second))
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogDir != "" {
		cfg.logDir = dto.LogDir
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		userAgent:         "crawl-gate/1.0",
		cacheSize:         1000,
		cacheTTL:          24 * time.Hour,
		defaultCrawlDelay: 10 * time.Second,
		logLevel:          "info",
		logDir:            "",
	}
	return &defaultConfig
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithCacheSize(size int) *Config {
	c.cacheSize = size
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithDefaultCrawlDelay(delay time.Duration) *Config {
	c.defaultCrawlDelay = delay
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogDir(dir string) *Config {
	c.logDir = dir
	return c
}

// Build validates the assembled config and returns it by value.
func (c *Config) Build() (Config, error) {
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return *c, nil
}

func (c *Config) validate() error {
	if c.userAgent == "" {
		return fmt.Errorf("%w: userAgent cannot be empty", ErrInvalidConfig)
	}
	if c.cacheSize <= 0 {
		return fmt.Errorf("%w: cacheSize must be positive, got %d", ErrInvalidConfig, c.cacheSize)
	}
	if c.cacheTTL <= 0 {
		return fmt.Errorf("%w: cacheTTL must be positive, got %v", ErrInvalidConfig, c.cacheTTL)
	}
	return nil
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) CacheSize() int {
	return c.cacheSize
}

func (c Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) DefaultCrawlDelay() time.Duration {
	return c.defaultCrawlDelay
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogDir() string {
	return c.logDir
}
