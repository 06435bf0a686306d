package tenant

// PrincipalKind classifies who or what holds a grant.
type PrincipalKind string

const (
	PrincipalUser      PrincipalKind = "user"
	PrincipalGroup     PrincipalKind = "group"
	PrincipalAnonymous PrincipalKind = "anonymous" // the link itself is the credential
)

// Principal represents a user, group, or anonymous link holder.
type Principal struct {
	ID          string
	DisplayName string
	Email       string
	Kind        PrincipalKind
}

// DisplayLabel returns the best display name for the principal.
func (p Principal) DisplayLabel() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Email != "" {
		return p.Email
	}
	if p.Kind == PrincipalAnonymous {
		return "Anonymous link"
	}
	return p.ID
}

// Role is the capability level a permission grants.
type Role string

const (
	RoleRead    Role = "read"
	RoleWrite   Role = "write"
	RoleOwner   Role = "owner"
	RoleUnknown Role = "unknown"
)

// PermissionSource classifies how a grant came to exist.
type PermissionSource string

const (
	SourceDirect    PermissionSource = "direct"    // explicitly granted on the resource
	SourceInherited PermissionSource = "inherited" // granted via site/library containment
	SourceLink      PermissionSource = "link"      // granted by possession of a sharing link
)

// Permission is one access grant applying to a shared link's target.
type Permission struct {
	Principal Principal
	Role      Role
	Source    PermissionSource
	// GrantedVia references the originating sharing link for link-based
	// grants, or the library/site for inherited ones.
	GrantedVia string
}

// dedupKey identifies a grant for merge purposes. A directly granted role and
// the same role arriving via inheritance are different grants that can be
// revoked independently, so the source is part of the key.
func (p Permission) dedupKey() string {
	return p.Principal.ID + "\x00" + string(p.Role) + "\x00" + string(p.Source)
}

// MergePermissions combines permission slices fetched for the same link,
// collapsing entries with identical (principal, role, source) into one.
// First-seen order is preserved so repeated fetches of an unchanged backend
// produce identical sets.
func MergePermissions(sets ...[]Permission) []Permission {
	var merged []Permission
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, p := range set {
			key := p.dedupKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}
