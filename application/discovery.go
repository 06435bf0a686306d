package application

import (
	"context"
	"fmt"

	"shareaudit/domain/tenant"
	"shareaudit/infrastructure/graph"
	"shareaudit/logging"
)

// SiteDiscoverer enumerates every site collection in the tenant. A failure
// here is total: there is no meaningful partial list of sites, so the
// aggregator treats it as run-fatal rather than recording a scoped error.
type SiteDiscoverer struct {
	client graph.Client
	logger *logging.Logger
}

// NewSiteDiscoverer creates a site discoverer.
func NewSiteDiscoverer(client graph.Client) *SiteDiscoverer {
	return &SiteDiscoverer{
		client: client,
		logger: logging.Default().WithComponent("site_discovery"),
	}
}

// DiscoverSites returns all sites in API-returned order, deduplicated by ID.
func (d *SiteDiscoverer) DiscoverSites(ctx context.Context) ([]*tenant.Site, error) {
	sites, err := d.client.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sites: %w", err)
	}

	// Discovery endpoints can return the root site twice. First occurrence
	// wins so ordering stays the API's.
	seen := make(map[string]struct{}, len(sites))
	unique := sites[:0]
	for _, s := range sites {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		unique = append(unique, s)
	}

	d.logger.Info("discovered sites", "count", len(unique))
	return unique, nil
}
