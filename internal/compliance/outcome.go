package compliance

import (
	"context"
	"errors"
	"net"
	"net/http"
)

/*
Fetch-outcome policy table

The mapping from a robots.txt fetch outcome to policy content is the heart
of the gate's conservative-vs-permissive stance (RFC 9309):

	200                  -> response body, parsed normally
	404                  -> empty document (allow all)
	5xx                  -> synthetic disallow-all document
	timeout              -> synthetic disallow-all document
	other status         -> empty document (allow all)
	other transport fail -> empty document (allow all, fail open)

Keeping the table in one switch keeps the stance auditable and testable
in isolation from network code.
*/

type fetchOutcome int

const (
	outcomeOK fetchOutcome = iota
	outcomeNotFound
	outcomeServerError
	outcomeTimeout
	outcomeOtherStatus
	outcomeTransportError
)

// disallowAllDocument is the synthetic policy installed when the server
// is erroring or timing out.
const disallowAllDocument = "User-agent: *\nDisallow: /"

// classifyOutcome reduces a fetch result to one of the closed outcome
// categories. gateErr is non-nil when the request never produced a status.
func classifyOutcome(statusCode int, gateErr *GateError) fetchOutcome {
	if gateErr != nil {
		if gateErr.Cause == ErrCauseFetchTimeout {
			return outcomeTimeout
		}
		return outcomeTransportError
	}

	switch {
	case statusCode == http.StatusOK:
		return outcomeOK
	case statusCode == http.StatusNotFound:
		return outcomeNotFound
	case statusCode >= 500:
		return outcomeServerError
	default:
		// 3xx the client could not resolve, 4xx other than 404
		return outcomeOtherStatus
	}
}

// policyDocument applies the outcome table, yielding the robots.txt content
// the gate will parse and cache for the domain.
func policyDocument(outcome fetchOutcome, body string) string {
	switch outcome {
	case outcomeOK:
		return body
	case outcomeServerError, outcomeTimeout:
		return disallowAllDocument
	default:
		return ""
	}
}

// isTimeoutError distinguishes deadline-style failures from other transport
// faults; the two map to opposite ends of the fail-open/fail-closed table.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
