package cache

import "github.com/temoto/robotstxt"

// Cache defines the port interface for parsed robots.txt policy caching.
// This interface follows the port-adapter pattern, allowing different
// cache implementations to be swapped without changing the gate logic.
//
// Keys are domain keys in the canonical "scheme://host[:port]" form.
// Stored policies are treated as immutable once built.
type Cache interface {
	// Get retrieves the cached policy for a domain key.
	// Returns the policy and true on a live entry; expired entries are
	// treated as absent and may be removed as a side effect.
	Get(key string) (*robotstxt.RobotsData, bool)

	// Put stores a policy under the given domain key, stamping it with the
	// cache's TTL. If the cache is at capacity, the entry with the earliest
	// expiry is evicted first. If the key already exists, it is overwritten.
	Put(key string, policy *robotstxt.RobotsData)

	// Clear removes all entries. Used for testing and forced refresh.
	Clear()
}
