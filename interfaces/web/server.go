package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"

	"shareaudit/infrastructure/export"
	"shareaudit/infrastructure/store"
	"shareaudit/logging"
)

// Server exposes stored crawl runs for browsing: run history as JSON and
// each run's report as JSON or rendered HTML.
type Server struct {
	runs     *store.RunStore
	exporter *export.HTMLExporter
	logger   *logging.Logger
}

// NewServer creates a report viewer server.
func NewServer(runs *store.RunStore, exporter *export.HTMLExporter) *Server {
	return &Server{
		runs:     runs,
		exporter: exporter,
		logger:   logging.Default().WithComponent("web"),
	}
}

// Router builds the chi router with request logging.
func (s *Server) Router(httpLogPath string) *chi.Mux {
	r := chi.NewRouter()

	if httpLogPath != "" {
		if logFile, err := os.OpenFile(httpLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			// Stays open for the server lifetime.
			httpLogger := httplog.NewLogger("shareaudit", httplog.Options{
				Writer: logFile,
				JSON:   true,
			})
			r.Use(httplog.RequestLogger(httpLogger))
		} else {
			s.logger.Error("failed to open HTTP log file", "error", err, "path", httpLogPath)
		}
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.Get("/{runID}", s.handleGetReport)
		r.Get("/{runID}/html", s.handleReportHTML)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.ListRuns(r.Context(), 100)
	if err != nil {
		s.logger.Error("list runs failed", "error", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.runs.GetReport(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.respondReportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := s.runs.GetReport(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.respondReportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.exporter.Render(rep, w); err != nil {
		s.logger.Error("render report failed", "error", err)
	}
}

func (s *Server) respondReportError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	s.logger.Error("load report failed", "error", err)
	http.Error(w, "failed to load report", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
