package tenant

import (
	"time"
)

// LinkScope identifies the audience a sharing link is valid for.
type LinkScope string

const (
	ScopeAnyone         LinkScope = "anonymous"    // anyone holding the link, including external users
	ScopeOrganization   LinkScope = "organization" // anyone signed in to the tenant
	ScopeSpecificPeople LinkScope = "users"        // an explicit list of recipients
	ScopeUnknown        LinkScope = "unknown"
)

// LinkType identifies the capability a sharing link grants.
type LinkType string

const (
	LinkTypeView    LinkType = "view"
	LinkTypeEdit    LinkType = "edit"
	LinkTypeUnknown LinkType = "unknown"
)

// SharedLink represents one sharing link on a drive item, together with the
// full permission set that applies to it.
type SharedLink struct {
	ID          string
	LibraryID   string
	ItemID      string
	ItemName    string
	ItemWebURL  string
	WebURL      string
	Scope       LinkScope
	Type        LinkType
	CreatedAt   *time.Time
	CreatedBy   string
	Permissions []Permission
}

// IsAnonymous returns true if anyone holding the link can use it.
func (l *SharedLink) IsAnonymous() bool {
	return l.Scope == ScopeAnyone
}

// IsOrganization returns true if the link is limited to the tenant.
func (l *SharedLink) IsOrganization() bool {
	return l.Scope == ScopeOrganization
}

// IsEdit returns true if the link grants write capability.
func (l *SharedLink) IsEdit() bool {
	return l.Type == LinkTypeEdit
}

// ScopeName returns a human-readable name for the link scope.
func (l *SharedLink) ScopeName() string {
	switch l.Scope {
	case ScopeAnyone:
		return "Anyone with the link"
	case ScopeOrganization:
		return "People in the organization"
	case ScopeSpecificPeople:
		return "Specific people"
	default:
		return "Unknown"
	}
}
