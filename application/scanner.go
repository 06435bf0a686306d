package application

import (
	"context"
	"fmt"

	"shareaudit/domain/tenant"
	"shareaudit/infrastructure/graph"
	"shareaudit/logging"
)

// LibraryScanner enumerates the document libraries of one site. Errors are
// returned to the aggregator, which records them scoped to the site and
// moves on; one inaccessible site never aborts the run.
type LibraryScanner struct {
	client graph.Client
	logger *logging.Logger
}

// NewLibraryScanner creates a library scanner.
func NewLibraryScanner(client graph.Client) *LibraryScanner {
	return &LibraryScanner{
		client: client,
		logger: logging.Default().WithComponent("library_scanner"),
	}
}

// ScanLibraries returns the site's libraries in API-returned order. An empty
// result is valid; a site may simply have no document libraries.
func (s *LibraryScanner) ScanLibraries(ctx context.Context, site *tenant.Site) ([]*tenant.Library, error) {
	libs, err := s.client.ListLibraries(ctx, site.ID)
	if err != nil {
		return nil, fmt.Errorf("scan libraries for site %s: %w", site.ID, err)
	}
	s.logger.Debug("scanned site", "site_id", site.ID, "libraries", len(libs))
	return libs, nil
}
