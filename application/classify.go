package application

import (
	"context"
	"errors"

	"shareaudit/domain/report"
	"shareaudit/infrastructure/graph"
)

// causeOf maps an error from the graph layer onto the report's cause
// classification. Cancellation wins over whatever failure it interrupted.
func causeOf(err error) report.Cause {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return report.CauseCancelled
	case errors.Is(err, graph.ErrAuthUnavailable):
		return report.CauseAuthUnavailable
	case errors.Is(err, graph.ErrAuthExpired):
		return report.CauseAuthExpired
	case errors.Is(err, graph.ErrRateLimitExceeded):
		return report.CauseRateLimited
	case errors.Is(err, graph.ErrUpstreamUnavailable):
		return report.CauseUpstream
	case errors.Is(err, graph.ErrResourceDenied):
		return report.CauseDenied
	default:
		return report.CauseUnknown
	}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
