package compliance

import (
	"time"
)

// Gate tuning knobs. Zero values are replaced by defaults in withDefaults.

type Options struct {
	// UserAgent is sent on robots.txt requests and matched against policy rules
	UserAgent string
	// CacheSize caps the number of domains whose policies are cached
	CacheSize int
	// CacheTTL is how long a fetched policy stays valid
	CacheTTL time.Duration
	// DefaultCrawlDelay applies when a policy declares no Crawl-delay
	DefaultCrawlDelay time.Duration
}

const (
	defaultUserAgent  = "crawl-gate/1.0"
	defaultCacheSize  = 1000
	defaultCacheTTL   = 24 * time.Hour
	defaultCrawlDelay = 10 * time.Second
)

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.CacheSize <= 0 {
		o.CacheSize = defaultCacheSize
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	if o.DefaultCrawlDelay == 0 {
		o.DefaultCrawlDelay = defaultCrawlDelay
	}
	return o
}

type DecisionReason string

const (
	AllowedByRobots    DecisionReason = "allowed_by_robots"
	DisallowedByRobots DecisionReason = "disallowed_by_robots"
	AllowedOnError     DecisionReason = "allowed_on_error"
)
