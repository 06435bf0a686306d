package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCursorAborted is returned by a cursor after a page fetch has failed.
// Continuation tokens are short-lived and not safe to resume out of order,
// so the only recovery is restarting from the first page with a new cursor.
var ErrCursorAborted = errors.New("page cursor aborted, restart from the first page")

// odataPage is the envelope shared by all paginated collection responses.
type odataPage[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// PageCursor produces a lazy, finite sequence of result pages for a
// paginated endpoint. Each pull issues exactly one executor call using the
// continuation link embedded in the prior page, until none remains.
type PageCursor[T any] struct {
	exec    *Executor
	initial Request
	next    string
	started bool
	done    bool
	failed  bool
}

// NewPageCursor creates a cursor positioned before the first page.
func NewPageCursor[T any](exec *Executor, initial Request) *PageCursor[T] {
	return &PageCursor[T]{exec: exec, initial: initial}
}

// Next fetches the next page. ok is false once the sequence is exhausted.
// After any error the cursor is dead and every further call returns
// ErrCursorAborted.
func (c *PageCursor[T]) Next(ctx context.Context) (items []T, ok bool, err error) {
	if c.failed {
		return nil, false, ErrCursorAborted
	}
	if c.done {
		return nil, false, nil
	}

	var body []byte
	if !c.started {
		c.started = true
		body, err = c.exec.Execute(ctx, c.initial)
	} else {
		body, err = c.exec.ExecuteURL(ctx, c.next)
	}
	if err != nil {
		c.failed = true
		return nil, false, err
	}

	var page odataPage[T]
	if err := json.Unmarshal(body, &page); err != nil {
		c.failed = true
		return nil, false, fmt.Errorf("decode page: %w", err)
	}

	c.next = page.NextLink
	if c.next == "" {
		c.done = true
	}
	return page.Value, true, nil
}

// All drains the cursor and returns the concatenation of every page.
func (c *PageCursor[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for {
		items, ok, err := c.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, items...)
	}
}
