package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shareaudit/domain/tenant"
)

func buildTree() []*tenant.Site {
	return []*tenant.Site{
		{
			ID: "site-a",
			Libraries: []*tenant.Library{
				{
					ID: "lib-1",
					Links: []*tenant.SharedLink{
						{
							ID: "link-1",
							Permissions: []tenant.Permission{
								{Principal: tenant.Principal{ID: "userx"}, Role: tenant.RoleRead, Source: tenant.SourceDirect},
								{Principal: tenant.Principal{ID: "groupy"}, Role: tenant.RoleRead, Source: tenant.SourceInherited},
							},
						},
					},
				},
			},
		},
		{ID: "site-b"},
	}
}

func TestComputeSummary_WalksFinalTree(t *testing.T) {
	rep := New("run-1", time.Now())
	for _, s := range buildTree() {
		rep.AddSite(s)
	}

	rep.ComputeSummary()

	assert.Equal(t, Summary{Sites: 2, Libraries: 1, Links: 1, Permissions: 2}, rep.Summary)
}

func TestRecordError_AppendOnly(t *testing.T) {
	rep := New("run-1", time.Now())
	rep.RecordError(CollectionError{Scope: ScopeSite, ResourceID: "site-b", Cause: CauseDenied})
	rep.RecordError(CollectionError{Scope: ScopeLibrary, ResourceID: "lib-9", Cause: CauseUpstream})

	assert.Len(t, rep.Errors, 2)
	assert.Equal(t, ScopeSite, rep.Errors[0].Scope)
	assert.Equal(t, ScopeLibrary, rep.Errors[1].Scope)
}

func TestHasRunFatalError(t *testing.T) {
	rep := New("run-1", time.Now())
	assert.False(t, rep.HasRunFatalError())

	rep.RecordError(CollectionError{Scope: ScopeRun, Cause: CauseCancelled})
	assert.False(t, rep.HasRunFatalError(), "cancellation is not a discovery failure")

	rep.RecordError(CollectionError{Scope: ScopeRun, Cause: CauseUpstream})
	assert.True(t, rep.HasRunFatalError())
}
