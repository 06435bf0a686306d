package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareaudit/domain/crawl"
	"shareaudit/domain/report"
	"shareaudit/domain/tenant"
	"shareaudit/infrastructure/graph"
)

func newAggregator(client graph.Client) *Aggregator {
	params := collectorParams(4)
	return NewAggregator(
		NewSiteDiscoverer(client),
		NewLibraryScanner(client),
		NewPermissionCollector(client, params),
	)
}

// Two sites: site-a has one library with one shared link carrying a direct
// and an inherited grant; site-b denies the library scan. The run keeps
// going, records one site-scoped error, and the summary reflects everything
// that was reachable.
func TestAggregatorRun_PartialAccessScenario(t *testing.T) {
	item := tenant.Item{ID: "item-1", Name: "budget.xlsx"}
	client := &fakeClient{
		listSites: func(ctx context.Context) ([]*tenant.Site, error) {
			return []*tenant.Site{{ID: "site-a", DisplayName: "A"}, {ID: "site-b", DisplayName: "B"}}, nil
		},
		listLibraries: func(ctx context.Context, siteID string) ([]*tenant.Library, error) {
			if siteID == "site-b" {
				return nil, fmt.Errorf("drives: %w", graph.ErrResourceDenied)
			}
			return []*tenant.Library{{ID: "lib-1", SiteID: siteID, Name: "Documents"}}, nil
		},
		listSharedItems: func(ctx context.Context, siteID, libraryID string) ([]tenant.Item, error) {
			return []tenant.Item{item}, nil
		},
		listItemLinks: func(ctx context.Context, siteID, libraryID string, it tenant.Item) ([]*tenant.SharedLink, error) {
			return []*tenant.SharedLink{oneLink(it, libraryID)}, nil
		},
		listLinkPermissions: func(ctx context.Context, siteID, libraryID, itemID, linkID string) ([]tenant.Permission, error) {
			return []tenant.Permission{
				{Principal: tenant.Principal{ID: "userx", Kind: tenant.PrincipalUser}, Role: tenant.RoleRead, Source: tenant.SourceDirect},
				{Principal: tenant.Principal{ID: "groupy", Kind: tenant.PrincipalGroup}, Role: tenant.RoleRead, Source: tenant.SourceInherited},
			}, nil
		},
	}

	rep := newAggregator(client).Run(context.Background(), "run-1")

	assert.Equal(t, report.Summary{Sites: 2, Libraries: 1, Links: 1, Permissions: 2}, rep.Summary)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, report.ScopeSite, rep.Errors[0].Scope)
	assert.Equal(t, "site-b", rep.Errors[0].ResourceID)
	assert.Equal(t, report.CauseDenied, rep.Errors[0].Cause)

	// The denied site still appears in the report, with no libraries.
	require.Len(t, rep.Sites, 2)
	assert.Equal(t, "site-b", rep.Sites[1].ID)
	assert.Empty(t, rep.Sites[1].Libraries)

	assert.Equal(t, crawl.StatusPartial, RunStatus(rep))
}

func TestAggregatorRun_DiscoveryFailureIsRunFatal(t *testing.T) {
	client := &fakeClient{
		listSites: func(ctx context.Context) ([]*tenant.Site, error) {
			return nil, fmt.Errorf("search: %w", graph.ErrAuthUnavailable)
		},
	}

	rep := newAggregator(client).Run(context.Background(), "run-1")

	assert.Empty(t, rep.Sites)
	assert.Equal(t, report.Summary{}, rep.Summary)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, report.ScopeRun, rep.Errors[0].Scope)
	assert.Equal(t, report.CauseAuthUnavailable, rep.Errors[0].Cause)
	assert.True(t, rep.HasRunFatalError())
	assert.Equal(t, crawl.StatusFailed, RunStatus(rep))
}

func TestAggregatorRun_CancellationReturnsPartialReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &fakeClient{
		listSites: func(c context.Context) ([]*tenant.Site, error) {
			return []*tenant.Site{{ID: "site-a"}, {ID: "site-b"}}, nil
		},
		listLibraries: func(c context.Context, siteID string) ([]*tenant.Library, error) {
			// Cancel while the first site is being scanned; it still yields
			// its result, the second site is never reached.
			cancel()
			return []*tenant.Library{{ID: "lib-1", SiteID: siteID}}, nil
		},
	}

	rep := newAggregator(client).Run(ctx, "run-1")

	// site-a made it in before cancellation was observed.
	require.NotEmpty(t, rep.Sites)
	assert.Equal(t, "site-a", rep.Sites[0].ID)

	var cancelled bool
	for _, e := range rep.Errors {
		if e.Scope == report.ScopeRun && e.Cause == report.CauseCancelled {
			cancelled = true
		}
	}
	assert.True(t, cancelled, "cancellation must leave an explicit marker")
	assert.Equal(t, crawl.StatusCancelled, RunStatus(rep))

	// The summary still reflects the partial tree.
	assert.Equal(t, 1, rep.Summary.Sites)
}

func TestAggregatorRun_CleanRunCompletes(t *testing.T) {
	client := &fakeClient{
		listSites: func(ctx context.Context) ([]*tenant.Site, error) {
			return []*tenant.Site{{ID: "site-a"}}, nil
		},
	}

	rep := newAggregator(client).Run(context.Background(), "run-1")

	assert.Empty(t, rep.Errors)
	assert.Equal(t, report.Summary{Sites: 1}, rep.Summary)
	assert.Equal(t, crawl.StatusCompleted, RunStatus(rep))
}

func TestDiscoverSites_DeduplicatesPreservingOrder(t *testing.T) {
	client := &fakeClient{
		listSites: func(ctx context.Context) ([]*tenant.Site, error) {
			return []*tenant.Site{{ID: "root"}, {ID: "site-a"}, {ID: "root"}, {ID: "site-b"}}, nil
		},
	}

	sites, err := NewSiteDiscoverer(client).DiscoverSites(context.Background())

	require.NoError(t, err)
	require.Len(t, sites, 3)
	assert.Equal(t, "root", sites[0].ID)
	assert.Equal(t, "site-a", sites[1].ID)
	assert.Equal(t, "site-b", sites[2].ID)
}

func TestAggregatorRun_ItemErrorsPropagateToReport(t *testing.T) {
	client := &fakeClient{
		listSites: func(ctx context.Context) ([]*tenant.Site, error) {
			return []*tenant.Site{{ID: "site-a"}}, nil
		},
		listLibraries: func(ctx context.Context, siteID string) ([]*tenant.Library, error) {
			return []*tenant.Library{{ID: "lib-1", SiteID: siteID}}, nil
		},
		listSharedItems: func(ctx context.Context, siteID, libraryID string) ([]tenant.Item, error) {
			return []tenant.Item{{ID: "item-1"}, {ID: "item-2"}}, nil
		},
		listItemLinks: func(ctx context.Context, siteID, libraryID string, it tenant.Item) ([]*tenant.SharedLink, error) {
			if it.ID == "item-2" {
				return nil, fmt.Errorf("throttled: %w", graph.ErrRateLimitExceeded)
			}
			return []*tenant.SharedLink{oneLink(it, libraryID)}, nil
		},
	}

	rep := newAggregator(client).Run(context.Background(), "run-1")

	require.Len(t, rep.Errors, 1)
	assert.Equal(t, report.ScopeItem, rep.Errors[0].Scope)
	assert.Equal(t, "item-2", rep.Errors[0].ResourceID)
	assert.Equal(t, report.CauseRateLimited, rep.Errors[0].Cause)
	assert.Equal(t, report.Summary{Sites: 1, Libraries: 1, Links: 1, Permissions: 0}, rep.Summary)
	assert.Equal(t, crawl.StatusPartial, RunStatus(rep))
}
