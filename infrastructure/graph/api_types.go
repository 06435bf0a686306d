package graph

import (
	"time"
)

// JSON shapes for the Graph API responses we consume. Only the fields the
// audit needs are decoded.

type siteJSON struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	DisplayName          string     `json:"displayName"`
	WebURL               string     `json:"webUrl"`
	CreatedDateTime      *time.Time `json:"createdDateTime"`
	LastModifiedDateTime *time.Time `json:"lastModifiedDateTime"`
}

type driveJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WebURL      string `json:"webUrl"`
	DriveType   string `json:"driveType"`
}

type driveItemJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
	// Folder facet presence marks the item as a folder.
	Folder *struct{} `json:"folder"`
}

type identityJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// identitySetJSON carries at most one of user/group for our purposes.
type identitySetJSON struct {
	User  *identityJSON `json:"user"`
	Group *identityJSON `json:"group"`
}

type linkFacetJSON struct {
	Scope  string `json:"scope"` // "anonymous", "organization", "users"
	Type   string `json:"type"`  // "view", "edit"
	WebURL string `json:"webUrl"`
}

type itemReferenceJSON struct {
	DriveID string `json:"driveId"`
	ID      string `json:"id"`
	Path    string `json:"path"`
}

// permissionJSON is both the sharing-link facet carrier (when Link is set)
// and an individual grant entry in a link's permission set.
type permissionJSON struct {
	ID                    string            `json:"id"`
	Roles                 []string          `json:"roles"`
	Link                  *linkFacetJSON    `json:"link"`
	GrantedToV2           *identitySetJSON  `json:"grantedToV2"`
	GrantedToIdentitiesV2 []identitySetJSON `json:"grantedToIdentitiesV2"`
	InheritedFrom         *itemReferenceJSON `json:"inheritedFrom"`
	CreatedDateTime       *time.Time        `json:"createdDateTime"`
	CreatedBy             *identitySetJSON  `json:"createdBy"`
}
