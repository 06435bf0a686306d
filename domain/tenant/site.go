package tenant

import (
	"time"
)

// Site represents a top-level site collection in the tenant's
// document-sharing hierarchy. Sites are created during discovery and are
// not mutated afterwards except for attaching scanned libraries.
type Site struct {
	ID          string
	DisplayName string
	WebURL      string
	CreatedAt   *time.Time
	ModifiedAt  *time.Time
	Libraries   []*Library
}

// Library represents a document library within a site.
type Library struct {
	ID          string
	SiteID      string // owning site, non-owning back-reference
	Name        string
	Description string
	WebURL      string
	Links       []*SharedLink
}

// Item represents a drive item (file or folder) that carries at least one
// shared link.
type Item struct {
	ID       string
	Name     string
	WebURL   string
	IsFolder bool
}

// LinkCount returns the number of shared links across all libraries.
func (s *Site) LinkCount() int {
	n := 0
	for _, lib := range s.Libraries {
		n += len(lib.Links)
	}
	return n
}
