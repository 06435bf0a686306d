package application

import (
	"context"

	"shareaudit/domain/tenant"
)

// fakeClient implements graph.Client with per-method function fields so each
// test wires only the calls it exercises.
type fakeClient struct {
	listSites           func(ctx context.Context) ([]*tenant.Site, error)
	listLibraries       func(ctx context.Context, siteID string) ([]*tenant.Library, error)
	listSharedItems     func(ctx context.Context, siteID, libraryID string) ([]tenant.Item, error)
	listItemLinks       func(ctx context.Context, siteID, libraryID string, item tenant.Item) ([]*tenant.SharedLink, error)
	listLinkPermissions func(ctx context.Context, siteID, libraryID, itemID, linkID string) ([]tenant.Permission, error)
}

func (f *fakeClient) ListSites(ctx context.Context) ([]*tenant.Site, error) {
	if f.listSites == nil {
		return nil, nil
	}
	return f.listSites(ctx)
}

func (f *fakeClient) ListLibraries(ctx context.Context, siteID string) ([]*tenant.Library, error) {
	if f.listLibraries == nil {
		return nil, nil
	}
	return f.listLibraries(ctx, siteID)
}

func (f *fakeClient) ListSharedItems(ctx context.Context, siteID, libraryID string) ([]tenant.Item, error) {
	if f.listSharedItems == nil {
		return nil, nil
	}
	return f.listSharedItems(ctx, siteID, libraryID)
}

func (f *fakeClient) ListItemLinks(ctx context.Context, siteID, libraryID string, item tenant.Item) ([]*tenant.SharedLink, error) {
	if f.listItemLinks == nil {
		return nil, nil
	}
	return f.listItemLinks(ctx, siteID, libraryID, item)
}

func (f *fakeClient) ListLinkPermissions(ctx context.Context, siteID, libraryID, itemID, linkID string) ([]tenant.Permission, error) {
	if f.listLinkPermissions == nil {
		return nil, nil
	}
	return f.listLinkPermissions(ctx, siteID, libraryID, itemID, linkID)
}

