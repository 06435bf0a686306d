package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func perm(principalID string, role Role, source PermissionSource) Permission {
	return Permission{
		Principal: Principal{ID: principalID, Kind: PrincipalUser},
		Role:      role,
		Source:    source,
	}
}

func TestMergePermissions_CollapsesIdenticalGrants(t *testing.T) {
	// The same grant arriving twice (retried or paginated fetch) must merge.
	a := []Permission{perm("userx", RoleRead, SourceDirect)}
	b := []Permission{perm("userx", RoleRead, SourceDirect)}

	merged := MergePermissions(a, b)

	assert.Len(t, merged, 1)
	assert.Equal(t, "userx", merged[0].Principal.ID)
}

func TestMergePermissions_KeepsDirectAndInheritedDistinct(t *testing.T) {
	// A direct grant and an inherited grant of the same role are different
	// grants that can be revoked independently.
	merged := MergePermissions([]Permission{
		perm("userx", RoleRead, SourceDirect),
		perm("userx", RoleRead, SourceInherited),
	})

	assert.Len(t, merged, 2)
}

func TestMergePermissions_KeepsDistinctRoles(t *testing.T) {
	merged := MergePermissions([]Permission{
		perm("userx", RoleRead, SourceDirect),
		perm("userx", RoleWrite, SourceDirect),
	})

	assert.Len(t, merged, 2)
}

func TestMergePermissions_Idempotent(t *testing.T) {
	set := []Permission{
		perm("userx", RoleRead, SourceDirect),
		perm("groupy", RoleRead, SourceInherited),
		perm("userz", RoleWrite, SourceLink),
	}

	once := MergePermissions(set)
	twice := MergePermissions(once, set)

	assert.Equal(t, once, twice)
}

func TestMergePermissions_PreservesFirstSeenOrder(t *testing.T) {
	merged := MergePermissions(
		[]Permission{perm("b", RoleRead, SourceDirect), perm("a", RoleRead, SourceDirect)},
		[]Permission{perm("a", RoleRead, SourceDirect), perm("c", RoleRead, SourceDirect)},
	)

	ids := make([]string, 0, len(merged))
	for _, p := range merged {
		ids = append(ids, p.Principal.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestPrincipal_DisplayLabel(t *testing.T) {
	assert.Equal(t, "Jane", Principal{ID: "1", DisplayName: "Jane"}.DisplayLabel())
	assert.Equal(t, "jane@example.com", Principal{ID: "1", Email: "jane@example.com"}.DisplayLabel())
	assert.Equal(t, "Anonymous link", Principal{Kind: PrincipalAnonymous}.DisplayLabel())
	assert.Equal(t, "1", Principal{ID: "1", Kind: PrincipalUser}.DisplayLabel())
}
