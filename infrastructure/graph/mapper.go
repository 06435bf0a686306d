package graph

import (
	"shareaudit/domain/tenant"
)

// Mapping from Graph JSON shapes to domain records. Unknown enum values
// never drop data; they map to the explicit unknown variants.

func mapSite(s siteJSON) *tenant.Site {
	name := s.DisplayName
	if name == "" {
		name = s.Name
	}
	return &tenant.Site{
		ID:          s.ID,
		DisplayName: name,
		WebURL:      s.WebURL,
		CreatedAt:   s.CreatedDateTime,
		ModifiedAt:  s.LastModifiedDateTime,
	}
}

func mapLibrary(d driveJSON, siteID string) *tenant.Library {
	return &tenant.Library{
		ID:          d.ID,
		SiteID:      siteID,
		Name:        d.Name,
		Description: d.Description,
		WebURL:      d.WebURL,
	}
}

func mapItem(it driveItemJSON) tenant.Item {
	return tenant.Item{
		ID:       it.ID,
		Name:     it.Name,
		WebURL:   it.WebURL,
		IsFolder: it.Folder != nil,
	}
}

// mapLink builds a shared link record from a permission carrying a link
// facet. The permission set is attached later by the collector.
func mapLink(p permissionJSON, item tenant.Item, libraryID string) *tenant.SharedLink {
	link := &tenant.SharedLink{
		ID:         p.ID,
		LibraryID:  libraryID,
		ItemID:     item.ID,
		ItemName:   item.Name,
		ItemWebURL: item.WebURL,
		Scope:      mapScope(p.Link),
		Type:       mapLinkType(p.Link),
		CreatedAt:  p.CreatedDateTime,
	}
	if p.Link != nil {
		link.WebURL = p.Link.WebURL
	}
	if p.CreatedBy != nil {
		link.CreatedBy = mapPrincipal(*p.CreatedBy).DisplayLabel()
	}
	return link
}

func mapScope(l *linkFacetJSON) tenant.LinkScope {
	if l == nil {
		return tenant.ScopeUnknown
	}
	switch l.Scope {
	case "anonymous":
		return tenant.ScopeAnyone
	case "organization":
		return tenant.ScopeOrganization
	case "users":
		return tenant.ScopeSpecificPeople
	default:
		return tenant.ScopeUnknown
	}
}

func mapLinkType(l *linkFacetJSON) tenant.LinkType {
	if l == nil {
		return tenant.LinkTypeUnknown
	}
	switch l.Type {
	case "view":
		return tenant.LinkTypeView
	case "edit":
		return tenant.LinkTypeEdit
	default:
		return tenant.LinkTypeUnknown
	}
}

// mapGrants expands one grant entry into permission records, one per
// grantee. An anonymous-scope link entry with no grantees is itself a grant
// to anyone holding the link.
func mapGrants(p permissionJSON, linkID string) []tenant.Permission {
	source := classifySource(p)
	via := linkID
	if source == tenant.SourceInherited && p.InheritedFrom != nil {
		if p.InheritedFrom.Path != "" {
			via = p.InheritedFrom.Path
		} else {
			via = p.InheritedFrom.ID
		}
	}
	role := strongestRole(p.Roles)

	var grantees []tenant.Principal
	if p.GrantedToV2 != nil {
		grantees = append(grantees, mapPrincipal(*p.GrantedToV2))
	}
	for _, ident := range p.GrantedToIdentitiesV2 {
		grantees = append(grantees, mapPrincipal(ident))
	}
	if len(grantees) == 0 && p.Link != nil {
		grantees = append(grantees, tenant.Principal{
			ID:          "link:" + p.ID,
			DisplayName: "Anyone with the link",
			Kind:        tenant.PrincipalAnonymous,
		})
	}

	perms := make([]tenant.Permission, 0, len(grantees))
	for _, g := range grantees {
		perms = append(perms, tenant.Permission{
			Principal:  g,
			Role:       role,
			Source:     source,
			GrantedVia: via,
		})
	}
	return perms
}

func classifySource(p permissionJSON) tenant.PermissionSource {
	switch {
	case p.Link != nil:
		return tenant.SourceLink
	case p.InheritedFrom != nil:
		return tenant.SourceInherited
	default:
		return tenant.SourceDirect
	}
}

func mapPrincipal(set identitySetJSON) tenant.Principal {
	switch {
	case set.User != nil:
		return tenant.Principal{
			ID:          set.User.ID,
			DisplayName: set.User.DisplayName,
			Email:       set.User.Email,
			Kind:        tenant.PrincipalUser,
		}
	case set.Group != nil:
		return tenant.Principal{
			ID:          set.Group.ID,
			DisplayName: set.Group.DisplayName,
			Email:       set.Group.Email,
			Kind:        tenant.PrincipalGroup,
		}
	default:
		return tenant.Principal{Kind: tenant.PrincipalAnonymous, DisplayName: "Anonymous link"}
	}
}

// strongestRole picks the highest capability from a grant's role list.
func strongestRole(roles []string) tenant.Role {
	best := tenant.RoleUnknown
	for _, r := range roles {
		switch r {
		case "owner", "fullControl":
			return tenant.RoleOwner
		case "write":
			best = tenant.RoleWrite
		case "read":
			if best != tenant.RoleWrite {
				best = tenant.RoleRead
			}
		}
	}
	return best
}
