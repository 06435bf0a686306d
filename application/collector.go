package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"shareaudit/domain/crawl"
	"shareaudit/domain/report"
	"shareaudit/domain/tenant"
	"shareaudit/infrastructure/graph"
	"shareaudit/logging"
)

// PermissionCollector gathers shared links and their permission sets for one
// library. Phase one enumerates items carrying links; phase two fans out
// per-item fetches up to a bounded concurrency. Results are re-ordered into
// item discovery order before they are handed back, so concurrent completion
// never changes the report's shape.
type PermissionCollector struct {
	client      graph.Client
	concurrency int
	logger      *logging.Logger
}

// NewPermissionCollector creates a collector with the given fan-out bound.
func NewPermissionCollector(client graph.Client, params *crawl.Parameters) *PermissionCollector {
	if params == nil {
		params = crawl.DefaultParameters()
	}
	return &PermissionCollector{
		client:      client,
		concurrency: params.Concurrency,
		logger:      logging.Default().WithComponent("permission_collector"),
	}
}

type itemOutcome struct {
	links []*tenant.SharedLink
	err   error
}

// Collect returns the library's shared links with populated permission sets,
// plus item-scoped collection errors for items that failed without blocking
// their siblings. A non-nil error means the whole library failed (phase one)
// or the run was cancelled; partial links gathered so far are still returned.
func (c *PermissionCollector) Collect(ctx context.Context, site *tenant.Site, lib *tenant.Library) ([]*tenant.SharedLink, []report.CollectionError, error) {
	items, err := c.client.ListSharedItems(ctx, site.ID, lib.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate shared items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil, nil
	}

	outcomes := make([]itemOutcome, len(items))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(c.concurrency)
	for i, item := range items {
		grp.Go(func() error {
			links, err := c.collectItem(gctx, site.ID, lib, item)
			if err != nil {
				if gctx.Err() != nil {
					// Cancellation aborts the group; anything else is an
					// item-scoped failure that must not block siblings.
					return gctx.Err()
				}
				outcomes[i] = itemOutcome{err: err}
				return nil
			}
			outcomes[i] = itemOutcome{links: links}
			return nil
		})
	}
	waitErr := grp.Wait()

	// Join results back in item discovery order, not completion order.
	var links []*tenant.SharedLink
	var errs []report.CollectionError
	for i, out := range outcomes {
		if out.err != nil {
			c.logger.Warn("item collection failed",
				"library_id", lib.ID, "item_id", items[i].ID, "error", out.err.Error())
			errs = append(errs, report.CollectionError{
				Scope:      report.ScopeItem,
				ResourceID: items[i].ID,
				Cause:      causeOf(out.err),
				Message:    out.err.Error(),
			})
			continue
		}
		links = append(links, out.links...)
	}

	if waitErr != nil {
		return links, errs, waitErr
	}
	return links, errs, nil
}

func (c *PermissionCollector) collectItem(ctx context.Context, siteID string, lib *tenant.Library, item tenant.Item) ([]*tenant.SharedLink, error) {
	links, err := c.client.ListItemLinks(ctx, siteID, lib.ID, item)
	if err != nil {
		return nil, fmt.Errorf("list links for item %s: %w", item.ID, err)
	}

	for _, link := range links {
		perms, err := c.client.ListLinkPermissions(ctx, siteID, lib.ID, item.ID, link.ID)
		if err != nil {
			return nil, fmt.Errorf("list permissions for link %s: %w", link.ID, err)
		}
		// Retried or paginated fetches can hand back the same grant twice;
		// identical (principal, role, source) entries collapse into one.
		link.Permissions = tenant.MergePermissions(link.Permissions, perms)
	}
	return links, nil
}
