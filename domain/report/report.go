package report

import (
	"time"

	"shareaudit/domain/tenant"
)

// ErrorScope identifies the level of the hierarchy a collection failure
// applies to.
type ErrorScope string

const (
	ScopeRun     ErrorScope = "run"
	ScopeSite    ErrorScope = "site"
	ScopeLibrary ErrorScope = "library"
	ScopeItem    ErrorScope = "item"
)

// Cause is the classified reason a scope could not be collected.
type Cause string

const (
	CauseAuthUnavailable Cause = "auth_unavailable"
	CauseAuthExpired     Cause = "auth_expired"
	CauseRateLimited     Cause = "rate_limit_exceeded"
	CauseUpstream        Cause = "upstream_unavailable"
	CauseDenied          Cause = "resource_denied"
	CauseCancelled       Cause = "cancelled"
	CauseUnknown         Cause = "unknown"
)

// CollectionError records one scope that could not be analyzed. Errors are
// append-only during a run and are never propagated past the aggregator.
type CollectionError struct {
	Scope      ErrorScope `json:"scope"`
	ResourceID string     `json:"resource_id,omitempty"`
	Cause      Cause      `json:"cause"`
	Message    string     `json:"message"`
}

// Summary holds the totals computed from the final, deduplicated tree.
type Summary struct {
	Sites       int `json:"sites"`
	Libraries   int `json:"libraries"`
	Links       int `json:"links"`
	Permissions int `json:"permissions"`
}

// Report is the root aggregate produced by a crawl. It exclusively owns the
// site tree; once handed to a consumer it must be treated as immutable.
type Report struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Sites       []*tenant.Site    `json:"sites"`
	Summary     Summary           `json:"summary"`
	Errors      []CollectionError `json:"errors"`
}

// New creates an empty report shell for a run.
func New(runID string, generatedAt time.Time) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
	}
}

// AddSite appends a site in discovery order.
func (r *Report) AddSite(s *tenant.Site) {
	r.Sites = append(r.Sites, s)
}

// RecordError appends a collection error. Never drops or replaces.
func (r *Report) RecordError(e CollectionError) {
	r.Errors = append(r.Errors, e)
}

// HasRunFatalError returns true if the run as a whole failed before any
// per-site collection could happen.
func (r *Report) HasRunFatalError() bool {
	for _, e := range r.Errors {
		if e.Scope == ScopeRun && e.Cause != CauseCancelled {
			return true
		}
	}
	return false
}

// ComputeSummary walks the assembled tree once and fills in the totals.
// Counts reflect the deduplicated final sets, not raw fetch counts.
func (r *Report) ComputeSummary() {
	var s Summary
	s.Sites = len(r.Sites)
	for _, site := range r.Sites {
		s.Libraries += len(site.Libraries)
		for _, lib := range site.Libraries {
			s.Links += len(lib.Links)
			for _, link := range lib.Links {
				s.Permissions += len(link.Permissions)
			}
		}
	}
	r.Summary = s
}
