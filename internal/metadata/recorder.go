package metadata

import (
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Fetch timestamps and HTTP status codes
- Allow/deny decisions with their reasons
- Crawl-delay waits
- Failure records with canonical causes

Logging Goals
- Debuggable gate behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Metadata is write-only.
No component may read metadata to influence gate or resolver decisions.
*/

/*
Recorder captures structured compliance events and emits them through zerolog.
It must not:
- perform I/O decisions
- affect control flow
- leak backend details to callers
Ordering guarantees:
- Events are recorded synchronously in the order they are received by a single caller.
- No global ordering across goroutines is guaranteed.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	logger zerolog.Logger
}

func NewRecorder(logger zerolog.Logger) Recorder {
	return Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	event := r.logger.Warn().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Int("cause", int(cause)).
		Str("error", errorString)
	for _, attr := range attrs {
		event = event.Str(string(attr.Key), attr.Value)
	}
	event.Msg("recoverable failure")
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
) {
	r.logger.Debug().
		Str("url", fetchUrl).
		Int("http_status", httpStatus).
		Dur("duration", duration).
		Str("content_type", contentType).
		Msg("fetch completed")
}

func (r *Recorder) RecordDecision(rawURL string, allowed bool, reason string) {
	if allowed {
		r.logger.Debug().
			Str("url", rawURL).
			Str("reason", reason).
			Msg("url allowed")
		return
	}
	r.logger.Info().
		Str("url", rawURL).
		Str("reason", reason).
		Msg("url blocked by robots.txt")
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
	)

	RecordDecision(rawURL string, allowed bool, reason string)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Gate (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
) {
}

func (n *NoopSink) RecordDecision(rawURL string, allowed bool, reason string) {}
