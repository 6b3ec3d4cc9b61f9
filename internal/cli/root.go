package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/crawl-gate/internal/build"
	"github.com/rohmanhakim/crawl-gate/internal/config"
	"github.com/rohmanhakim/crawl-gate/internal/metadata"
)

var (
	cfgFile           string
	userAgent         string
	cacheSize         int
	cacheTTL          time.Duration
	defaultCrawlDelay time.Duration
	logLevel          string
	logDir            string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crawl-gate",
	Short: "Robots.txt compliance and sitemap URL discovery for crawlers.",
	Long: `crawl-gate answers the two questions a polite crawler must ask before
fetching any page: "may I fetch this URL?" and "how long must I wait?".

It fetches, parses, and caches robots.txt policies per domain (RFC 9309
error handling, 24h TTL), enforces per-domain crawl delays, and discovers
candidate URLs from XML sitemaps, normalizing relative locations into
absolute, fetchable URLs.`,
	Version: build.FullVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string sent on requests and matched against robots rules")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 0, "maximum number of domains whose policies are cached")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", 0, "how long a cached policy stays valid")
	rootCmd.PersistentFlags().DurationVar(&defaultCrawlDelay, "default-crawl-delay", 0, "delay between requests to a domain that declares no Crawl-delay")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for rotating log files (console only when empty)")
}

// ResetFlags restores every flag-backed variable to its zero value.
// This is useful for testing.
func ResetFlags() {
	cfgFile = ""
	userAgent = ""
	cacheSize = 0
	cacheTTL = 0
	defaultCrawlDelay = 0
	logLevel = ""
	logDir = ""
	checkWait = false
}

// InitConfig assembles the effective config from the config file or flags.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError assembles the effective config, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return applyFlagOverrides(cfg), nil
	}

	return applyFlagOverrides(*config.WithDefault()), nil
}

// applyFlagOverrides layers non-zero CLI flag values over cfg.
func applyFlagOverrides(cfg config.Config) config.Config {
	builder := &cfg

	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if cacheSize > 0 {
		builder = builder.WithCacheSize(cacheSize)
	}
	if cacheTTL > 0 {
		builder = builder.WithCacheTTL(cacheTTL)
	}
	if defaultCrawlDelay != 0 {
		builder = builder.WithDefaultCrawlDelay(defaultCrawlDelay)
	}
	if logLevel != "" {
		builder = builder.WithLogLevel(logLevel)
	}
	if logDir != "" {
		builder = builder.WithLogDir(logDir)
	}

	return *builder
}

// newSink builds the structured event sink the components report through.
func newSink(cfg config.Config) (metadata.MetadataSink, error) {
	logger, err := metadata.NewLogger(metadata.LogConfig{
		Level:      cfg.LogLevel(),
		LogDir:     cfg.LogDir(),
		MaxSizeMB:  metadata.DefaultLogConfig().MaxSizeMB,
		MaxBackups: metadata.DefaultLogConfig().MaxBackups,
		MaxAgeDays: metadata.DefaultLogConfig().MaxAgeDays,
	})
	if err != nil {
		return nil, err
	}
	recorder := metadata.NewRecorder(logger)
	return &recorder, nil
}
