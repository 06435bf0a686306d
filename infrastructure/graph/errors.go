package graph

import (
	"errors"
	"fmt"
)

// Failure taxonomy for remote API calls. Every non-success outcome of the
// executor unwraps to exactly one of these sentinels so callers can classify
// without string matching.
var (
	// ErrAuthUnavailable means no valid credential is configured. Fatal
	// before any fetch.
	ErrAuthUnavailable = errors.New("authentication unavailable")

	// ErrAuthExpired means a request got 401 twice, once before and once
	// after a token refresh.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRateLimitExceeded means throttling responses persisted past the
	// retry bound.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUpstreamUnavailable means server errors persisted past the retry
	// bound, or the service was unreachable.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrResourceDenied means the resource returned 403 or 404. Never
	// retried; these are not transient.
	ErrResourceDenied = errors.New("resource denied")
)

// apiError carries the HTTP detail behind a sentinel failure.
type apiError struct {
	kind   error
	status int
	url    string
	detail string
}

func (e *apiError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("%s: status %d on %s: %s", e.kind, e.status, e.url, e.detail)
	}
	return fmt.Sprintf("%s: status %d on %s", e.kind, e.status, e.url)
}

func (e *apiError) Unwrap() error {
	return e.kind
}
