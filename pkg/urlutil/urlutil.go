package urlutil

import (
	"errors"
	"net/url"
)

// ErrNoSchemeOrHost is returned when a URL cannot identify a site on its own.
var ErrNoSchemeOrHost = errors.New("url is missing scheme or host")

// DomainKey reduces a URL to the canonical "scheme://host[:port]" form used
// to identify a site's policy. Path, query, and fragment are discarded.
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: DomainKey(DomainKey(url)) == DomainKey(url)
//
// An error is returned when either the scheme or the host is missing, since
// such a URL cannot be mapped to a single site.
func DomainKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", ErrNoSchemeOrHost
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// PathQuery extracts the portion of a URL that robots.txt rules are matched
// against: the escaped path plus the raw query, never empty ("/" minimum).
func PathQuery(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

// IsAbsoluteHTTP reports whether the parsed URL is absolute (has both a
// scheme and a host) and uses the http or https scheme.
func IsAbsoluteHTTP(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ComposeAbsolute turns a raw URL reference into an absolute, fetchable URL.
//
// Already-absolute http(s) references are returned as-is. Relative references
// (missing scheme or host) are resolved against base using standard
// relative-resolution rules, so "/docs/x" resolves against base's host and
// "../x" resolves against base's path. The second return value is false when
// the reference is malformed or does not produce an absolute http(s) URL
// even after resolution (e.g. a mailto: reference).
func ComposeAbsolute(base *url.URL, ref string) (string, bool) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	if parsed.Scheme != "" && parsed.Host != "" {
		if !IsAbsoluteHTTP(parsed) {
			return "", false
		}
		return ref, true
	}

	resolved := base.ResolveReference(parsed)
	if !IsAbsoluteHTTP(resolved) {
		return "", false
	}
	return resolved.String(), true
}
