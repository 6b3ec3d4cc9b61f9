package transport

import (
	"net/http"
	"sync"
	"time"
)

/*
Responsibilities

- Own the process-wide HTTP client shared by every Gate and Resolver instance
- Create the client lazily on first use
- Survive instance lifecycles: component Close() must never tear it down

A crawl session creates many short-lived gate and resolver instances.
Sharing one client keeps them on a single connection pool instead of
churning sockets per instance.
*/

// robotsClientTimeout bounds a single robots.txt fetch.
const robotsClientTimeout = 10 * time.Second

var (
	sharedOnce   sync.Once
	sharedClient *http.Client
)

// Shared returns the process-wide HTTP client, creating it on first call.
// The client follows redirects and applies a 10 second request timeout.
// Callers must not mutate or close the returned client.
func Shared() *http.Client {
	sharedOnce.Do(func() {
		sharedClient = &http.Client{Timeout: robotsClientTimeout}
	})
	return sharedClient
}
