package graph

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"shareaudit/domain/crawl"
	"shareaudit/logging"
)

// TokenSupplier provides bearer tokens for API calls. The executor asks for
// a token before every request and invalidates once after a 401 so the next
// ask returns a fresh one.
type TokenSupplier interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Request describes one fully-formed API call.
type Request struct {
	Method string // defaults to GET
	Path   string // relative to the base URL, e.g. "/sites"
	Query  url.Values
}

// Executor issues authenticated HTTP calls against the Graph API, applying
// retry, backoff, and tenant-wide rate-limit compliance. Instances carry
// their own limiter state so independent runs and tests never share
// throttling state.
type Executor struct {
	httpClient *http.Client
	tokens     TokenSupplier
	limiter    *rate.Limiter
	inflight   chan struct{} // global admission gate, shared across the whole run
	baseURL    string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *logging.Logger
}

// NewExecutor creates an executor bound to a base URL and token supplier.
func NewExecutor(baseURL string, tokens TokenSupplier, params *crawl.Parameters) *Executor {
	if params == nil {
		params = crawl.DefaultParameters()
	}
	burst := int(params.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Executor{
		httpClient: &http.Client{Timeout: params.RequestTimeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(params.RequestsPerSecond), burst),
		inflight:   make(chan struct{}, params.Concurrency),
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: params.MaxRetries,
		baseDelay:  params.BaseRetryDelay,
		maxDelay:   params.MaxRetryDelay,
		logger:     logging.Default().WithComponent("graph_executor"),
	}
}

// Execute issues the request and returns the raw response body.
func (e *Executor) Execute(ctx context.Context, req Request) ([]byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := e.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return e.do(ctx, method, target)
}

// ExecuteURL issues a GET against an absolute URL. Continuation links from
// paginated responses are absolute, so the cursor uses this directly.
func (e *Executor) ExecuteURL(ctx context.Context, rawURL string) ([]byte, error) {
	return e.do(ctx, http.MethodGet, rawURL)
}

func (e *Executor) do(ctx context.Context, method, target string) ([]byte, error) {
	// Admission gate: bounds in-flight calls across all concurrent callers.
	select {
	case e.inflight <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.inflight }()

	refreshed := false
	attempt := 0
	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		token, err := e.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Accept", "application/json")

		resp, err := e.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= e.maxRetries {
				return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
			}
			attempt++
			if err := e.sleep(ctx, e.backoff(attempt, 0)); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, readErr)
			}
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized:
			// One refresh per call. A second 401 is fatal for the call.
			if refreshed {
				return nil, &apiError{kind: ErrAuthExpired, status: resp.StatusCode, url: target}
			}
			refreshed = true
			e.tokens.Invalidate()
			e.logger.Graph("token rejected, refreshing once", "url", target)
			continue

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
			if attempt >= e.maxRetries {
				return nil, &apiError{kind: ErrRateLimitExceeded, status: resp.StatusCode, url: target}
			}
			attempt++
			delay := e.backoff(attempt, retryAfter(resp))
			e.logger.Graph("throttled, backing off",
				"url", target, "status", resp.StatusCode, "attempt", attempt, "delay", delay.String())
			if err := e.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
			// Not transient; surface immediately.
			return nil, &apiError{kind: ErrResourceDenied, status: resp.StatusCode, url: target, detail: trimBody(body)}

		case resp.StatusCode >= 500:
			if attempt >= e.maxRetries {
				return nil, &apiError{kind: ErrUpstreamUnavailable, status: resp.StatusCode, url: target, detail: trimBody(body)}
			}
			attempt++
			if err := e.sleep(ctx, e.backoff(attempt, 0)); err != nil {
				return nil, err
			}
			continue

		default:
			return nil, &apiError{kind: ErrUpstreamUnavailable, status: resp.StatusCode, url: target, detail: trimBody(body)}
		}
	}
}

// backoff computes the delay before the given attempt. A positive hint from
// a Retry-After header wins; otherwise the base delay doubles per attempt up
// to the cap, with ±25% jitter so parallel callers don't re-synchronize.
func (e *Executor) backoff(attempt int, hint time.Duration) time.Duration {
	if hint > 0 {
		if hint > e.maxDelay {
			return e.maxDelay
		}
		return hint
	}
	d := e.baseDelay << (attempt - 1)
	if d > e.maxDelay || d <= 0 {
		d = e.maxDelay
	}
	quarter := int64(d / 4)
	if quarter > 0 {
		d += time.Duration(rand.Int64N(2*quarter) - quarter)
	}
	return d
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func trimBody(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
