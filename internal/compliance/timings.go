package compliance

import (
	"sync"
	"time"
)

// domainTimings bookkeeps each domain's last completed fetch wait.
// One entry per domain seen during the session; entries are never evicted.
// Mutation happens only under the domain's delay lock, but the map itself
// needs its own guard because different domains touch it concurrently.
type domainTimings struct {
	mu          sync.RWMutex
	lastFetchAt map[string]time.Time
}

func newDomainTimings() *domainTimings {
	return &domainTimings{
		lastFetchAt: make(map[string]time.Time),
	}
}

func (d *domainTimings) lastFetch(domain string) (time.Time, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, exists := d.lastFetchAt[domain]
	return t, exists
}

func (d *domainTimings) markFetchedAt(domain string, t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastFetchAt[domain] = t
}

func (d *domainTimings) clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastFetchAt = make(map[string]time.Time)
}
