package compliance

import (
	"fmt"

	"github.com/rohmanhakim/crawl-gate/internal/metadata"
	"github.com/rohmanhakim/crawl-gate/pkg/failure"
)

type GateErrorCause string

const (
	ErrCauseInvalidURL       GateErrorCause = "url missing scheme or host"
	ErrCauseFetchTimeout     GateErrorCause = "robots.txt fetch timed out"
	ErrCauseTransportFailure GateErrorCause = "robots.txt fetch failed"
	ErrCauseUnparsablePolicy GateErrorCause = "robots.txt could not be parsed"
)

type GateError struct {
	Message   string
	Retryable bool
	Cause     GateErrorCause
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate error: %s", e.Cause)
}

func (e *GateError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapGateErrorToMetadataCause maps gate-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapGateErrorToMetadataCause(err *GateError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseFetchTimeout, ErrCauseTransportFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseInvalidURL, ErrCauseUnparsablePolicy:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
