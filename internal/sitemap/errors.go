package sitemap

import (
	"fmt"

	"github.com/rohmanhakim/crawl-gate/internal/metadata"
	"github.com/rohmanhakim/crawl-gate/pkg/failure"
)

type SitemapErrorCause string

const (
	ErrCauseFetchFailure     SitemapErrorCause = "sitemap fetch failed"
	ErrCauseUnexpectedStatus SitemapErrorCause = "sitemap responded with non-200 status"
	ErrCauseMalformedXML     SitemapErrorCause = "sitemap XML could not be parsed"
	ErrCauseReadBodyFailure  SitemapErrorCause = "failed to read sitemap body"
)

type SitemapError struct {
	Message   string
	Retryable bool
	Cause     SitemapErrorCause
}

func (e *SitemapError) Error() string {
	return fmt.Sprintf("sitemap error: %s", e.Cause)
}

func (e *SitemapError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapSitemapErrorToMetadataCause maps resolver-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapSitemapErrorToMetadataCause(err *SitemapError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseFetchFailure, ErrCauseReadBodyFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseMalformedXML:
		return metadata.CauseContentInvalid
	case ErrCauseUnexpectedStatus:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
