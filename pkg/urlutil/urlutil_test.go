package urlutil

import (
	"net/url"
	"testing"
)

func TestDomainKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "path discarded",
			input:    "https://docs.example.com/guide/intro",
			expected: "https://docs.example.com",
		},
		{
			name:     "query discarded",
			input:    "https://docs.example.com/guide?page=2",
			expected: "https://docs.example.com",
		},
		{
			name:     "fragment discarded",
			input:    "https://docs.example.com/guide#index",
			expected: "https://docs.example.com",
		},
		{
			name:     "port preserved",
			input:    "http://docs.example.com:8080/guide",
			expected: "http://docs.example.com:8080",
		},
		{
			name:     "bare domain unchanged",
			input:    "https://docs.example.com",
			expected: "https://docs.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DomainKey(tt.input)
			if err != nil {
				t.Fatalf("DomainKey(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("DomainKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDomainKey_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing scheme", input: "docs.example.com/guide"},
		{name: "missing host", input: "https:///guide"},
		{name: "relative path", input: "/guide/intro"},
		{name: "mailto reference", input: "mailto:a@b.com"},
		{name: "empty string", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := DomainKey(tt.input); err == nil {
				t.Errorf("DomainKey(%q) = %q, want error", tt.input, got)
			}
		})
	}
}

func TestPathQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "path only",
			input:    "https://example.com/docs/x",
			expected: "/docs/x",
		},
		{
			name:     "path with query",
			input:    "https://example.com/search?q=go&page=2",
			expected: "/search?q=go&page=2",
		},
		{
			name:     "empty path becomes root",
			input:    "https://example.com",
			expected: "/",
		},
		{
			name:     "query without path",
			input:    "https://example.com?q=go",
			expected: "/?q=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", tt.input, err)
			}
			if got := PathQuery(u); got != tt.expected {
				t.Errorf("PathQuery(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestComposeAbsolute(t *testing.T) {
	base, err := url.Parse("https://ex.com/s/sitemap.xml")
	if err != nil {
		t.Fatalf("failed to parse base URL: %v", err)
	}

	tests := []struct {
		name     string
		ref      string
		expected string
		ok       bool
	}{
		{
			name:     "absolute http kept as-is",
			ref:      "https://ex.com/a",
			expected: "https://ex.com/a",
			ok:       true,
		},
		{
			name:     "absolute to other host kept as-is",
			ref:      "https://other.example/b",
			expected: "https://other.example/b",
			ok:       true,
		},
		{
			name:     "rooted path resolves against host",
			ref:      "/docs/x",
			expected: "https://ex.com/docs/x",
			ok:       true,
		},
		{
			name:     "dotdot resolves against sitemap path",
			ref:      "../y",
			expected: "https://ex.com/y",
			ok:       true,
		},
		{
			name:     "sibling path resolves against sitemap path",
			ref:      "page.html",
			expected: "https://ex.com/s/page.html",
			ok:       true,
		},
		{
			name: "mailto dropped",
			ref:  "mailto:a@b.com",
			ok:   false,
		},
		{
			name: "absolute non-http dropped",
			ref:  "ftp://ex.com/file",
			ok:   false,
		},
		{
			name:     "protocol-relative resolves with base scheme",
			ref:      "//cdn.example/asset",
			expected: "https://cdn.example/asset",
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComposeAbsolute(base, tt.ref)
			if ok != tt.ok {
				t.Fatalf("ComposeAbsolute(%q) ok = %t, want %t", tt.ref, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ComposeAbsolute(%q) = %q, want %q", tt.ref, got, tt.expected)
			}
		})
	}
}
