package export

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"shareaudit/domain/report"
	"shareaudit/logging"
)

// HTMLExporter renders a finished report into a single self-contained HTML
// document: summary cards, collapsible per-site sections with link and
// permission tables, and an appendix listing everything that could not be
// analyzed.
type HTMLExporter struct {
	tmpl   *template.Template
	logger *logging.Logger
}

// NewHTMLExporter creates an exporter with the built-in template.
func NewHTMLExporter() (*HTMLExporter, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"fmtTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
		"fmtTimePtr": func(t *time.Time) string {
			if t == nil {
				return "—"
			}
			return t.Format("2006-01-02 15:04")
		},
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLExporter{
		tmpl:   tmpl,
		logger: logging.Default().WithComponent("html_exporter"),
	}, nil
}

// ExportFile renders the report and writes it to path.
func (e *HTMLExporter) ExportFile(rep *report.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := e.tmpl.Execute(f, rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	e.logger.Info("exported HTML report", "path", path, "sites", rep.Summary.Sites)
	return nil
}

// Render writes the report HTML to an arbitrary writer, used by the web
// viewer.
func (e *HTMLExporter) Render(rep *report.Report, w io.Writer) error {
	return e.tmpl.Execute(w, rep)
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Shared Link Access Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f4f5f7; color: #222; }
.container { max-width: 1100px; margin: 0 auto; padding: 24px; }
.header { background: #20415f; color: #fff; padding: 24px; border-radius: 8px 8px 0 0; }
.header h1 { margin: 0 0 4px; font-size: 24px; }
.header p { margin: 0; opacity: .8; font-size: 13px; }
.summary-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 12px; margin: 20px 0; }
.summary-card { background: #fff; border-radius: 8px; padding: 16px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.summary-card h3 { margin: 0; font-size: 28px; color: #20415f; }
.summary-card p { margin: 4px 0 0; font-size: 13px; color: #666; }
.site { background: #fff; border-radius: 8px; margin-bottom: 16px; padding: 16px 20px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.site h2 { margin: 0 0 4px; font-size: 18px; }
.site .meta { font-size: 12px; color: #666; margin-bottom: 8px; }
.library { border-left: 3px solid #20415f; margin: 12px 0; padding: 4px 0 4px 14px; }
.library h3 { margin: 0 0 4px; font-size: 15px; }
table { width: 100%; border-collapse: collapse; margin: 8px 0; font-size: 13px; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #e3e5e8; }
th { background: #f0f2f4; font-weight: 600; }
.badge { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 11px; color: #fff; }
.badge.read { background: #2e7d32; }
.badge.write { background: #e65100; }
.badge.owner { background: #b71c1c; }
.badge.unknown { background: #607d8b; }
.scope-anonymous { color: #b71c1c; font-weight: 600; }
.errors { background: #fff3f3; border: 1px solid #f0c0c0; border-radius: 8px; padding: 16px 20px; margin-top: 20px; }
.errors h2 { margin-top: 0; font-size: 16px; color: #b71c1c; }
.no-data { color: #888; font-size: 13px; font-style: italic; }
.footer { text-align: center; font-size: 12px; color: #888; padding: 16px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Shared Link Access Report</h1>
    <p>Run {{.RunID}} &middot; generated {{fmtTime .GeneratedAt}}</p>
  </div>

  <div class="summary-grid">
    <div class="summary-card"><h3>{{.Summary.Sites}}</h3><p>Sites</p></div>
    <div class="summary-card"><h3>{{.Summary.Libraries}}</h3><p>Libraries</p></div>
    <div class="summary-card"><h3>{{.Summary.Links}}</h3><p>Shared links</p></div>
    <div class="summary-card"><h3>{{.Summary.Permissions}}</h3><p>Permissions</p></div>
  </div>

  {{if not .Sites}}<div class="no-data">No sites were analyzed.</div>{{end}}
  {{range .Sites}}
  <div class="site">
    <h2>{{.DisplayName}}</h2>
    <div class="meta"><a href="{{.WebURL}}">{{.WebURL}}</a></div>
    {{if not .Libraries}}<div class="no-data">No document libraries.</div>{{end}}
    {{range .Libraries}}
    <div class="library">
      <h3>{{.Name}}</h3>
      {{if .Description}}<div class="meta">{{.Description}}</div>{{end}}
      {{if not .Links}}<div class="no-data">No shared links.</div>{{else}}
      <table>
        <tr><th>Item</th><th>Scope</th><th>Type</th><th>Created</th><th>Grants</th></tr>
        {{range .Links}}
        <tr>
          <td><a href="{{.ItemWebURL}}">{{.ItemName}}</a></td>
          <td{{if .IsAnonymous}} class="scope-anonymous"{{end}}>{{.ScopeName}}</td>
          <td>{{.Type}}</td>
          <td>{{fmtTimePtr .CreatedAt}}</td>
          <td>
            {{range .Permissions}}
            <div>{{.Principal.DisplayLabel}} <span class="badge {{.Role}}">{{.Role}}</span> <small>({{.Source}})</small></div>
            {{end}}
          </td>
        </tr>
        {{end}}
      </table>
      {{end}}
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .Errors}}
  <div class="errors">
    <h2>Could not be analyzed ({{len .Errors}})</h2>
    <table>
      <tr><th>Scope</th><th>Resource</th><th>Cause</th><th>Detail</th></tr>
      {{range .Errors}}
      <tr><td>{{.Scope}}</td><td>{{.ResourceID}}</td><td>{{.Cause}}</td><td>{{.Message}}</td></tr>
      {{end}}
    </table>
  </div>
  {{end}}

  <div class="footer">shareaudit &middot; read-only audit, no changes were made to the tenant</div>
</div>
</body>
</html>
`
