package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/crawl-gate/internal/metadata"
	"github.com/rohmanhakim/crawl-gate/internal/transport"
	"github.com/rohmanhakim/crawl-gate/pkg/urlutil"
)

/*
Responsibilities

- Fetch a sitemap document over HTTP with a bounded timeout
- Extract every <loc> value regardless of XML namespace
- Compose relative locations against the sitemap's own URL
- Preserve document order; leave deduplication to the caller

Failure model

A sitemap that cannot be fetched or parsed yields an empty list, never an
error: sitemap absence is not fatal to the crawl. Context cancellation is
the one condition that propagates, because it is the caller's own
termination request rather than a fault.

XML parsing is atomic: a syntax error anywhere in the document discards
locations collected up to that point and yields an empty list. This matches
the long-standing behavior callers depend on; a streaming tolerant parser
would silently change result sets for partially broken sitemaps.
*/

// resolveTimeout bounds a single sitemap fetch.
const resolveTimeout = 30 * time.Second

// maxSitemapBytes limits the size of sitemap responses we will read.
const maxSitemapBytes = 50 * 1024 * 1024

type Resolver struct {
	sink       metadata.MetadataSink
	httpClient *http.Client
}

// NewResolver creates a Resolver backed by the process-wide shared HTTP client.
func NewResolver(sink metadata.MetadataSink) *Resolver {
	return NewResolverWithClient(sink, transport.Shared())
}

// NewResolverWithClient creates a Resolver with a custom HTTP client.
// This is useful for testing.
func NewResolverWithClient(sink metadata.MetadataSink, httpClient *http.Client) *Resolver {
	return &Resolver{
		sink:       sink,
		httpClient: httpClient,
	}
}

// Resolve fetches the sitemap at sitemapURL and returns the absolute,
// fetchable URLs it lists, in document order. Relative <loc> entries are
// composed against sitemapURL; entries that cannot be made into absolute
// http(s) URLs are dropped. The returned error is non-nil only when ctx is
// cancelled; every other failure resolves to an empty list.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(sitemapURL)
	if err != nil {
		r.recordSitemapError("Resolver.Resolve", sitemapURL, &SitemapError{
			Message:   fmt.Sprintf("sitemap URL unparsable: %v", err),
			Retryable: false,
			Cause:     ErrCauseFetchFailure,
		})
		return []string{}, nil
	}

	body, fetchErr := r.fetch(ctx, sitemapURL)
	if fetchErr != nil {
		// A cancelled context surfaces as a transport error mid-request;
		// unwrap it so the caller sees its own cancellation.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.recordSitemapError("Resolver.Resolve", sitemapURL, fetchErr)
		return []string{}, nil
	}

	locations, parseErr := extractLocations(body)
	if parseErr != nil {
		r.recordSitemapError("Resolver.Resolve", sitemapURL, parseErr)
		return []string{}, nil
	}

	urls := make([]string, 0, len(locations))
	for _, raw := range locations {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if absolute, ok := urlutil.ComposeAbsolute(base, raw); ok {
			urls = append(urls, absolute)
		}
	}

	return urls, nil
}

// fetch GETs the sitemap and returns its body, or a classified error for
// transport failures and non-200 statuses.
func (r *Resolver) fetch(ctx context.Context, sitemapURL string) ([]byte, *SitemapError) {
	reqCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, &SitemapError{
			Message:   fmt.Sprintf("building sitemap request for %s: %v", sitemapURL, err),
			Retryable: false,
			Cause:     ErrCauseFetchFailure,
		}
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &SitemapError{
			Message:   fmt.Sprintf("fetching sitemap %s: %v", sitemapURL, err),
			Retryable: true,
			Cause:     ErrCauseFetchFailure,
		}
	}
	defer resp.Body.Close()

	r.sink.RecordFetch(sitemapURL, resp.StatusCode, time.Since(start), resp.Header.Get("Content-Type"))

	if resp.StatusCode != http.StatusOK {
		return nil, &SitemapError{
			Message:   fmt.Sprintf("sitemap %s responded with HTTP %d", sitemapURL, resp.StatusCode),
			Retryable: resp.StatusCode >= 500,
			Cause:     ErrCauseUnexpectedStatus,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, &SitemapError{
			Message:   fmt.Sprintf("reading sitemap %s: %v", sitemapURL, err),
			Retryable: true,
			Cause:     ErrCauseReadBodyFailure,
		}
	}

	return body, nil
}

// extractLocations walks the XML token stream collecting the text content of
// every element whose local name is "loc", in document order. Matching is
// namespace-agnostic since sitemaps declare their default namespace
// inconsistently. The whole-document parse is atomic; any token error
// invalidates the collected set.
func extractLocations(body []byte) ([]string, *SitemapError) {
	decoder := xml.NewDecoder(bytes.NewReader(body))

	var locations []string
	var insideLoc bool
	var current strings.Builder

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SitemapError{
				Message:   fmt.Sprintf("parsing sitemap XML: %v", err),
				Retryable: false,
				Cause:     ErrCauseMalformedXML,
			}
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "loc" {
				insideLoc = true
				current.Reset()
			}
		case xml.CharData:
			if insideLoc {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "loc" && insideLoc {
				insideLoc = false
				locations = append(locations, current.String())
			}
		}
	}

	return locations, nil
}

func (r *Resolver) recordSitemapError(action, sitemapURL string, sitemapErr *SitemapError) {
	r.sink.RecordError(
		time.Now(),
		"sitemap",
		action,
		mapSitemapErrorToMetadataCause(sitemapErr),
		sitemapErr.Message,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrSitemapURL, sitemapURL),
		},
	)
}
