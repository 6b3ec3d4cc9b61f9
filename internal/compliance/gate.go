package compliance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/rohmanhakim/crawl-gate/internal/compliance/cache"
	"github.com/rohmanhakim/crawl-gate/internal/metadata"
	"github.com/rohmanhakim/crawl-gate/internal/transport"
	"github.com/rohmanhakim/crawl-gate/pkg/urlutil"
)

/*
Responsibilities

- Fetch robots.txt per domain using the shared HTTP client
- Cache parsed policies with a TTL and a capacity bound
- Answer allow/deny for full URLs against the configured user agent
- Enforce per-domain minimum spacing between fetches

Error policy

CanFetch, CrawlDelay, and WaitIfNeeded never surface internal faults to the
caller; every failure resolves through the outcome table in outcome.go.
The single exception is context cancellation in WaitIfNeeded, which is the
caller's own termination request and therefore propagates.

Locking

Each domain has two independent mutexes: one serializing cache
fetch-or-read, one serializing delay enforcement. They must stay distinct
because WaitIfNeeded calls CrawlDelay, which takes the cache lock; a single
per-domain lock would deadlock on that re-entry. Lock creation is guarded
by a gate-level mutex so racing goroutines for the same new domain observe
one lock, not two.
*/

// maxPolicyBytes limits the size of robots.txt responses we will read.
const maxPolicyBytes = 512 * 1024

type Gate struct {
	sink         metadata.MetadataSink
	httpClient   *http.Client
	userAgent    string
	defaultDelay time.Duration

	policies cache.Cache
	timings  *domainTimings

	// guards the two lock maps, never held across I/O
	mu         sync.Mutex
	cacheLocks map[string]*sync.Mutex
	delayLocks map[string]*sync.Mutex
}

// NewGate creates a Gate backed by the process-wide shared HTTP client.
func NewGate(sink metadata.MetadataSink, opts Options) *Gate {
	return NewGateWithClient(sink, opts, transport.Shared())
}

// NewGateWithClient creates a Gate with a custom HTTP client.
// This is useful for testing.
func NewGateWithClient(sink metadata.MetadataSink, opts Options, httpClient *http.Client) *Gate {
	opts = opts.withDefaults()
	return &Gate{
		sink:         sink,
		httpClient:   httpClient,
		userAgent:    opts.UserAgent,
		defaultDelay: opts.DefaultCrawlDelay,
		policies:     cache.NewMemoryCache(opts.CacheSize, opts.CacheTTL),
		timings:      newDomainTimings(),
		cacheLocks:   make(map[string]*sync.Mutex),
		delayLocks:   make(map[string]*sync.Mutex),
	}
}

// CanFetch reports whether the configured user agent may fetch rawURL
// according to the URL's site policy. It never returns an error: a URL that
// cannot be reduced to a domain key, or a policy that cannot be obtained,
// resolves through the outcome table and ultimately fails open.
func (g *Gate) CanFetch(ctx context.Context, rawURL string) bool {
	domainKey, err := urlutil.DomainKey(rawURL)
	if err != nil {
		gateErr := &GateError{
			Message:   fmt.Sprintf("cannot derive domain key from %q: %v", rawURL, err),
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
		g.recordGateError("Gate.CanFetch", rawURL, gateErr)
		g.sink.RecordDecision(rawURL, true, string(AllowedOnError))
		return true
	}

	policy := g.policyFor(ctx, domainKey)

	parsed, err := url.Parse(rawURL)
	if err != nil {
		// DomainKey parsed it already; reaching here means the URL mutated
		// between calls, which cannot happen. Fail open regardless.
		g.sink.RecordDecision(rawURL, true, string(AllowedOnError))
		return true
	}

	allowed := policy.TestAgent(urlutil.PathQuery(parsed), g.userAgent)

	reason := AllowedByRobots
	if !allowed {
		reason = DisallowedByRobots
	}
	g.sink.RecordDecision(rawURL, allowed, string(reason))

	return allowed
}

// CrawlDelay returns the site-declared Crawl-delay for the domain, or the
// configured default when the policy declares none.
func (g *Gate) CrawlDelay(ctx context.Context, domainKey string) time.Duration {
	policy := g.policyFor(ctx, domainKey)

	if group := policy.FindGroup(g.userAgent); group != nil && group.CrawlDelay > 0 {
		return group.CrawlDelay
	}
	return g.defaultDelay
}

// WaitIfNeeded blocks the calling goroutine until at least CrawlDelay(domain)
// has elapsed since the last completed wait for that domain. target may be a
// full URL or a bare domain key. Concurrent calls for one domain are totally
// ordered by the domain's delay lock; different domains never block each
// other. The completion timestamp is recorded after the sleep, so
// back-to-back calls are spaced by real elapsed time.
//
// The only returned error is ctx.Err() when the caller cancels mid-wait.
func (g *Gate) WaitIfNeeded(ctx context.Context, target string) error {
	domainKey := target
	if derived, err := urlutil.DomainKey(target); err == nil {
		domainKey = derived
	}

	lock := g.delayLockFor(domainKey)
	lock.Lock()
	defer lock.Unlock()

	delay := g.CrawlDelay(ctx, domainKey)
	if delay <= 0 {
		return nil
	}

	if last, seen := g.timings.lastFetch(domainKey); seen {
		if remaining := delay - time.Since(last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				g.sink.RecordError(
					time.Now(),
					"compliance",
					"Gate.WaitIfNeeded",
					metadata.CauseCancelled,
					ctx.Err().Error(),
					[]metadata.Attribute{
						metadata.NewAttr(metadata.AttrDomain, domainKey),
						metadata.NewAttr(metadata.AttrDelay, remaining.String()),
					},
				)
				return ctx.Err()
			}
		}
	}

	g.timings.markFetchedAt(domainKey, time.Now())
	return nil
}

// Close releases instance resources. The HTTP client is shared across all
// Gate instances and must not be torn down here; other instances may still
// be using it. Kept for lifecycle symmetry with the driver's expectations.
func (g *Gate) Close() {}

// ClearCache drops all cached policies and last-fetch timestamps.
// Used for testing and forced refresh.
func (g *Gate) ClearCache() {
	g.policies.Clear()
	g.timings.clear()
}

// UserAgent returns the user agent the gate matches policies against.
func (g *Gate) UserAgent() string {
	return g.userAgent
}

// policyFor returns the domain's parsed policy, fetching and caching it on
// miss or expiry. The domain's cache lock serializes the fetch-or-read
// sequence, so concurrent first-time callers trigger exactly one fetch and
// the second caller observes the first caller's result.
func (g *Gate) policyFor(ctx context.Context, domainKey string) *robotstxt.RobotsData {
	lock := g.cacheLockFor(domainKey)
	lock.Lock()
	defer lock.Unlock()

	if policy, found := g.policies.Get(domainKey); found {
		return policy
	}

	content := g.fetchPolicyDocument(ctx, domainKey)

	policy, err := robotstxt.FromString(content)
	if err != nil {
		gateErr := &GateError{
			Message:   fmt.Sprintf("parsing robots.txt for %s: %v", domainKey, err),
			Retryable: false,
			Cause:     ErrCauseUnparsablePolicy,
		}
		g.recordGateError("Gate.policyFor", domainKey, gateErr)
		// fail open: an unparsable policy behaves like an absent one
		policy, _ = robotstxt.FromString("")
	}

	g.policies.Put(domainKey, policy)
	return policy
}

// fetchPolicyDocument GETs {domainKey}/robots.txt and resolves the response
// through the outcome table, returning the policy content to parse.
func (g *Gate) fetchPolicyDocument(ctx context.Context, domainKey string) string {
	policyURL := domainKey + "/robots.txt"
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, policyURL, nil)
	if err != nil {
		gateErr := &GateError{
			Message:   fmt.Sprintf("building robots.txt request for %s: %v", domainKey, err),
			Retryable: false,
			Cause:     ErrCauseTransportFailure,
		}
		g.recordGateError("Gate.fetchPolicyDocument", domainKey, gateErr)
		return policyDocument(classifyOutcome(0, gateErr), "")
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseTransportFailure
		retryable := true
		if isTimeoutError(err) {
			cause = ErrCauseFetchTimeout
		}
		gateErr := &GateError{
			Message:   fmt.Sprintf("fetching %s: %v", policyURL, err),
			Retryable: retryable,
			Cause:     cause,
		}
		g.recordGateError("Gate.fetchPolicyDocument", domainKey, gateErr)
		return policyDocument(classifyOutcome(0, gateErr), "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPolicyBytes))
	if err != nil {
		gateErr := &GateError{
			Message:   fmt.Sprintf("reading %s: %v", policyURL, err),
			Retryable: true,
			Cause:     ErrCauseTransportFailure,
		}
		g.recordGateError("Gate.fetchPolicyDocument", domainKey, gateErr)
		return policyDocument(classifyOutcome(0, gateErr), "")
	}

	g.sink.RecordFetch(policyURL, resp.StatusCode, time.Since(start), resp.Header.Get("Content-Type"))

	return policyDocument(classifyOutcome(resp.StatusCode, nil), string(body))
}

func (g *Gate) recordGateError(action, subject string, gateErr *GateError) {
	g.sink.RecordError(
		time.Now(),
		"compliance",
		action,
		mapGateErrorToMetadataCause(gateErr),
		gateErr.Message,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrDomain, subject),
		},
	)
}

// cacheLockFor returns the domain's cache-access lock, creating it on first
// use. Creation is synchronized so two goroutines racing on a new domain
// cannot end up holding different locks.
func (g *Gate) cacheLockFor(domainKey string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, exists := g.cacheLocks[domainKey]
	if !exists {
		lock = &sync.Mutex{}
		g.cacheLocks[domainKey] = lock
	}
	return lock
}

// delayLockFor returns the domain's delay-enforcement lock. Kept separate
// from the cache lock namespace; see the locking notes above.
func (g *Gate) delayLockFor(domainKey string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, exists := g.delayLocks[domainKey]
	if !exists {
		lock = &sync.Mutex{}
		g.delayLocks[domainKey] = lock
	}
	return lock
}
