package graph

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"shareaudit/domain/crawl"
	"shareaudit/domain/tenant"
	"shareaudit/logging"
)

// Client abstracts the Graph API operations the crawl needs. Each method
// drains the relevant paginated endpoint and returns domain records in
// API-returned order.
type Client interface {
	// ListSites enumerates every site collection in the tenant.
	ListSites(ctx context.Context) ([]*tenant.Site, error)

	// ListLibraries enumerates the document libraries of a site.
	ListLibraries(ctx context.Context, siteID string) ([]*tenant.Library, error)

	// ListSharedItems enumerates items in a library that carry at least one
	// sharing link.
	ListSharedItems(ctx context.Context, siteID, libraryID string) ([]tenant.Item, error)

	// ListItemLinks fetches the sharing links on one item.
	ListItemLinks(ctx context.Context, siteID, libraryID string, item tenant.Item) ([]*tenant.SharedLink, error)

	// ListLinkPermissions fetches the full permission set applying to one
	// sharing link: direct, inherited, and link-based grants.
	ListLinkPermissions(ctx context.Context, siteID, libraryID, itemID, linkID string) ([]tenant.Permission, error)
}

// GraphClient implements Client on top of the executor and page cursors.
type GraphClient struct {
	exec     *Executor
	pageSize int
	logger   *logging.Logger
}

// NewClient creates a Graph client with the given executor and parameters.
func NewClient(exec *Executor, params *crawl.Parameters) *GraphClient {
	if params == nil {
		params = crawl.DefaultParameters()
	}
	return &GraphClient{
		exec:     exec,
		pageSize: params.PageSize,
		logger:   logging.Default().WithComponent("graph_client"),
	}
}

func (c *GraphClient) ListSites(ctx context.Context) ([]*tenant.Site, error) {
	query := url.Values{}
	query.Set("search", "*")
	query.Set("$top", strconv.Itoa(c.pageSize))

	cursor := NewPageCursor[siteJSON](c.exec, Request{Path: "/sites", Query: query})
	raw, err := cursor.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}

	sites := make([]*tenant.Site, 0, len(raw))
	for _, s := range raw {
		sites = append(sites, mapSite(s))
	}
	c.logger.Graph("listed sites", "count", len(sites))
	return sites, nil
}

func (c *GraphClient) ListLibraries(ctx context.Context, siteID string) ([]*tenant.Library, error) {
	path := fmt.Sprintf("/sites/%s/drives", url.PathEscape(siteID))
	cursor := NewPageCursor[driveJSON](c.exec, Request{Path: path, Query: c.topQuery()})
	raw, err := cursor.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list libraries for site %s: %w", siteID, err)
	}

	libs := make([]*tenant.Library, 0, len(raw))
	for _, d := range raw {
		libs = append(libs, mapLibrary(d, siteID))
	}
	c.logger.Graph("listed libraries", "site_id", siteID, "count", len(libs))
	return libs, nil
}

func (c *GraphClient) ListSharedItems(ctx context.Context, siteID, libraryID string) ([]tenant.Item, error) {
	path := fmt.Sprintf("/sites/%s/drives/%s/shared", url.PathEscape(siteID), url.PathEscape(libraryID))
	cursor := NewPageCursor[driveItemJSON](c.exec, Request{Path: path, Query: c.topQuery()})
	raw, err := cursor.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shared items for library %s: %w", libraryID, err)
	}

	items := make([]tenant.Item, 0, len(raw))
	for _, it := range raw {
		items = append(items, mapItem(it))
	}
	c.logger.Graph("listed shared items", "library_id", libraryID, "count", len(items))
	return items, nil
}

func (c *GraphClient) ListItemLinks(ctx context.Context, siteID, libraryID string, item tenant.Item) ([]*tenant.SharedLink, error) {
	path := fmt.Sprintf("/sites/%s/drives/%s/items/%s/permissions",
		url.PathEscape(siteID), url.PathEscape(libraryID), url.PathEscape(item.ID))
	cursor := NewPageCursor[permissionJSON](c.exec, Request{Path: path, Query: c.topQuery()})
	raw, err := cursor.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links for item %s: %w", item.ID, err)
	}

	var links []*tenant.SharedLink
	for _, p := range raw {
		// Only permissions carrying a link facet are sharing links; plain
		// grants on the item surface through ListLinkPermissions instead.
		if p.Link == nil {
			continue
		}
		links = append(links, mapLink(p, item, libraryID))
	}
	return links, nil
}

func (c *GraphClient) ListLinkPermissions(ctx context.Context, siteID, libraryID, itemID, linkID string) ([]tenant.Permission, error) {
	path := fmt.Sprintf("/sites/%s/drives/%s/items/%s/permissions/%s/grants",
		url.PathEscape(siteID), url.PathEscape(libraryID), url.PathEscape(itemID), url.PathEscape(linkID))
	cursor := NewPageCursor[permissionJSON](c.exec, Request{Path: path, Query: c.topQuery()})
	raw, err := cursor.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions for link %s: %w", linkID, err)
	}

	var perms []tenant.Permission
	for _, p := range raw {
		perms = append(perms, mapGrants(p, linkID)...)
	}
	return perms, nil
}

func (c *GraphClient) topQuery() url.Values {
	query := url.Values{}
	query.Set("$top", strconv.Itoa(c.pageSize))
	return query
}
