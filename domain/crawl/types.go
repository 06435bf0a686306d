package crawl

import (
	"time"
)

// Status represents the status of a crawl run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial" // completed with recorded collection errors
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Run represents one crawl run's lifecycle metadata.
type Run struct {
	ID          string     `json:"id"`
	Status      Status     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  int64      `json:"duration_ms"`
	Error       string     `json:"error,omitempty"`
}

// Complete marks the run finished with the given status.
func (r *Run) Complete(status Status, at time.Time) {
	r.Status = status
	r.CompletedAt = &at
	r.DurationMs = at.Sub(r.StartedAt).Milliseconds()
}
