package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareaudit/domain/report"
	"shareaudit/domain/tenant"
)

func sampleReport() *report.Report {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rep := report.New("run-1", created)
	rep.AddSite(&tenant.Site{
		ID:          "site-a",
		DisplayName: "Finance",
		WebURL:      "https://contoso.sharepoint.com/sites/finance",
		Libraries: []*tenant.Library{
			{
				ID:   "lib-1",
				Name: "Documents",
				Links: []*tenant.SharedLink{
					{
						ID:       "link-1",
						ItemName: "budget.xlsx",
						Scope:    tenant.ScopeAnyone,
						Type:     tenant.LinkTypeView,
						Permissions: []tenant.Permission{
							{
								Principal: tenant.Principal{ID: "userx", DisplayName: "User X", Kind: tenant.PrincipalUser},
								Role:      tenant.RoleRead,
								Source:    tenant.SourceDirect,
							},
						},
					},
				},
			},
		},
	})
	rep.RecordError(report.CollectionError{
		Scope:      report.ScopeSite,
		ResourceID: "site-b",
		Cause:      report.CauseDenied,
		Message:    "scan libraries for site site-b: denied",
	})
	rep.ComputeSummary()
	return rep
}

func TestRender_ContainsReportContent(t *testing.T) {
	exporter, err := NewHTMLExporter()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Render(sampleReport(), &buf))
	html := buf.String()

	assert.Contains(t, html, "run-1")
	assert.Contains(t, html, "Finance")
	assert.Contains(t, html, "Documents")
	assert.Contains(t, html, "budget.xlsx")
	assert.Contains(t, html, "User X")
	assert.Contains(t, html, "scope-anonymous")
	assert.Contains(t, html, "Could not be analyzed (1)")
	assert.Contains(t, html, "site-b")
}

func TestRender_EmptyReport(t *testing.T) {
	exporter, err := NewHTMLExporter()
	require.NoError(t, err)

	rep := report.New("run-empty", time.Now())
	rep.ComputeSummary()

	var buf bytes.Buffer
	require.NoError(t, exporter.Render(rep, &buf))
	assert.Contains(t, buf.String(), "No sites were analyzed.")
}

func TestRender_EscapesMarkup(t *testing.T) {
	exporter, err := NewHTMLExporter()
	require.NoError(t, err)

	rep := report.New("run-1", time.Now())
	rep.AddSite(&tenant.Site{ID: "s", DisplayName: "<script>alert(1)</script>"})
	rep.ComputeSummary()

	var buf bytes.Buffer
	require.NoError(t, exporter.Render(rep, &buf))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestExportFile_CreatesParentDirectories(t *testing.T) {
	exporter, err := NewHTMLExporter()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "out.html")
	require.NoError(t, exporter.ExportFile(sampleReport(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Shared Link Access Report")
}
