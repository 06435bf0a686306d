package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareaudit/database"
	"shareaudit/domain/crawl"
	"shareaudit/domain/report"
	"shareaudit/domain/tenant"
	"shareaudit/infrastructure/export"
	"shareaudit/infrastructure/store"
	"shareaudit/logging"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.RunStore) {
	t.Helper()
	config := database.DefaultConfig()
	config.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.New(config, logging.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exporter, err := export.NewHTMLExporter()
	require.NoError(t, err)

	runStore := store.NewRunStore(db)
	server := httptest.NewServer(NewServer(runStore, exporter).Router(""))
	t.Cleanup(server.Close)
	return server, runStore
}

func saveTestRun(t *testing.T, runStore *store.RunStore, id string) {
	t.Helper()
	startedAt := time.Now().UTC()
	rep := report.New(id, startedAt)
	rep.AddSite(&tenant.Site{ID: "site-a", DisplayName: "Finance"})
	rep.ComputeSummary()

	run := crawl.Run{ID: id, Status: crawl.StatusRunning, StartedAt: startedAt}
	run.Complete(crawl.StatusCompleted, startedAt.Add(time.Second))
	require.NoError(t, runStore.SaveRun(context.Background(), run, rep))
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ListRuns(t *testing.T) {
	server, runStore := newTestServer(t)
	saveTestRun(t, runStore, "run-1")
	saveTestRun(t, runStore, "run-2")

	resp, err := http.Get(server.URL + "/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []store.RunSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	assert.Len(t, runs, 2)
}

func TestServer_GetReport(t *testing.T) {
	server, runStore := newTestServer(t)
	saveTestRun(t, runStore, "run-1")

	resp, err := http.Get(server.URL + "/runs/run-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, "run-1", rep.RunID)
	assert.Equal(t, 1, rep.Summary.Sites)
}

func TestServer_GetReportNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/runs/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ReportHTML(t *testing.T) {
	server, runStore := newTestServer(t)
	saveTestRun(t, runStore, "run-1")

	resp, err := http.Get(server.URL + "/runs/run-1/html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
