package crawl

import (
	"fmt"
	"time"
)

// Parameters represents user-configurable crawl behavior.
type Parameters struct {
	PageSize          int           // items requested per page
	MaxRetries        int           // retry attempts for throttled or failing calls
	BaseRetryDelay    time.Duration // first backoff delay, doubled per attempt
	MaxRetryDelay     time.Duration // backoff cap
	Concurrency       int           // bounded fan-out for per-item permission fetches
	RequestTimeout    time.Duration // per-request HTTP timeout
	RequestsPerSecond float64       // tenant-wide pacing for the admission gate
}

// DefaultParameters returns sensible default crawl parameters.
func DefaultParameters() *Parameters {
	return &Parameters{
		PageSize:          100,
		MaxRetries:        3,
		BaseRetryDelay:    time.Second,
		MaxRetryDelay:     30 * time.Second,
		Concurrency:       8,
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 10,
	}
}

// APIConstraints defines the technical limits imposed by the remote API.
// These are infrastructure limits, not user preferences.
type APIConstraints struct {
	MinPageSize    int
	MaxPageSize    int
	MaxRetries     int
	MaxConcurrency int
	MaxRetryDelay  time.Duration
}

// DefaultAPIConstraints returns the Graph API technical limits.
func DefaultAPIConstraints() *APIConstraints {
	return &APIConstraints{
		MinPageSize:    1,
		MaxPageSize:    999,
		MaxRetries:     10,
		MaxConcurrency: 64,
		MaxRetryDelay:  2 * time.Minute,
	}
}

// Validate checks the parameters against API constraints.
func (p *Parameters) Validate(constraints *APIConstraints) error {
	if p == nil {
		return fmt.Errorf("crawl parameters cannot be nil")
	}
	if constraints == nil {
		constraints = DefaultAPIConstraints()
	}

	if p.PageSize < constraints.MinPageSize {
		return fmt.Errorf("page_size must be at least %d, got: %d", constraints.MinPageSize, p.PageSize)
	}
	if p.PageSize > constraints.MaxPageSize {
		return fmt.Errorf("page_size cannot exceed %d (Graph API limit), got: %d", constraints.MaxPageSize, p.PageSize)
	}

	if p.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got: %d", p.MaxRetries)
	}
	if p.MaxRetries > constraints.MaxRetries {
		return fmt.Errorf("max_retries cannot exceed %d, got: %d", constraints.MaxRetries, p.MaxRetries)
	}

	if p.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got: %d", p.Concurrency)
	}
	if p.Concurrency > constraints.MaxConcurrency {
		return fmt.Errorf("concurrency cannot exceed %d, got: %d", constraints.MaxConcurrency, p.Concurrency)
	}

	if p.BaseRetryDelay <= 0 {
		return fmt.Errorf("base_retry_delay must be positive, got: %s", p.BaseRetryDelay)
	}
	if p.MaxRetryDelay > constraints.MaxRetryDelay {
		return fmt.Errorf("max_retry_delay cannot exceed %s, got: %s", constraints.MaxRetryDelay, p.MaxRetryDelay)
	}
	if p.MaxRetryDelay < p.BaseRetryDelay {
		return fmt.Errorf("max_retry_delay (%s) cannot be below base_retry_delay (%s)", p.MaxRetryDelay, p.BaseRetryDelay)
	}

	if p.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got: %f", p.RequestsPerSecond)
	}

	return nil
}
