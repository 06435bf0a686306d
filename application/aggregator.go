package application

import (
	"context"
	"fmt"
	"time"

	"shareaudit/domain/crawl"
	"shareaudit/domain/report"
	"shareaudit/logging"
)

// Aggregator drives the full crawl: discovery, per-site scanning, per-library
// collection. It is the single control path that mutates the report tree, so
// the report needs no synchronization even while item fetches run
// concurrently underneath.
type Aggregator struct {
	discoverer *SiteDiscoverer
	scanner    *LibraryScanner
	collector  *PermissionCollector
	progress   crawl.ProgressReporter
	logger     *logging.Logger
}

// NewAggregator wires the three crawl stages together.
func NewAggregator(discoverer *SiteDiscoverer, scanner *LibraryScanner, collector *PermissionCollector) *Aggregator {
	return &Aggregator{
		discoverer: discoverer,
		scanner:    scanner,
		collector:  collector,
		progress:   crawl.NoOpProgressReporter{},
		logger:     logging.Default().WithComponent("aggregator"),
	}
}

// SetProgressReporter sets the progress reporter for crawl progress.
func (a *Aggregator) SetProgressReporter(reporter crawl.ProgressReporter) {
	if reporter != nil {
		a.progress = reporter
	}
}

// Run executes the crawl and always returns a report. Failures during
// discovery are run-fatal and yield a report shell with one run-scoped
// error; every later failure is recorded at its scope and the crawl keeps
// going. Cancellation returns whatever was accumulated plus a "cancelled"
// marker so truncation is never silent.
func (a *Aggregator) Run(ctx context.Context, runID string) *report.Report {
	rep := report.New(runID, time.Now().UTC())
	a.logger.Crawl("starting crawl", runID)

	a.progress.ReportStage(crawl.StandardStages.Discovery, "Discovering sites")
	sites, err := a.discoverer.DiscoverSites(ctx)
	if err != nil {
		a.logger.CrawlError("site discovery failed", err, runID)
		scope := report.ScopeRun
		rep.RecordError(report.CollectionError{
			Scope:   scope,
			Cause:   causeOf(err),
			Message: fmt.Sprintf("site discovery failed: %v", err),
		})
		rep.ComputeSummary()
		return rep
	}

	a.progress.ReportStage(crawl.StandardStages.Scanning, fmt.Sprintf("Auditing %d sites", len(sites)))
	for i, site := range sites {
		if ctx.Err() != nil {
			a.recordCancelled(rep)
			rep.ComputeSummary()
			return rep
		}

		// Sites enter the report in discovery order, before scanning, so a
		// site that cannot be scanned still appears with its error.
		rep.AddSite(site)

		libs, err := a.scanner.ScanLibraries(ctx, site)
		if err != nil {
			if isCancelled(err) {
				a.recordCancelled(rep)
				rep.ComputeSummary()
				return rep
			}
			rep.RecordError(report.CollectionError{
				Scope:      report.ScopeSite,
				ResourceID: site.ID,
				Cause:      causeOf(err),
				Message:    err.Error(),
			})
			continue
		}
		site.Libraries = libs

		for _, lib := range libs {
			links, itemErrs, err := a.collector.Collect(ctx, site, lib)
			// Whatever was gathered before a failure stays in the report.
			lib.Links = links
			for _, e := range itemErrs {
				rep.RecordError(e)
			}
			if err != nil {
				if isCancelled(err) {
					a.recordCancelled(rep)
					rep.ComputeSummary()
					return rep
				}
				rep.RecordError(report.CollectionError{
					Scope:      report.ScopeLibrary,
					ResourceID: lib.ID,
					Cause:      causeOf(err),
					Message:    err.Error(),
				})
			}
		}

		a.progress.ReportSiteProgress(i+1, len(sites))
	}

	a.progress.ReportStage(crawl.StandardStages.Summarizing, "Computing summary")
	rep.ComputeSummary()
	a.logger.Crawl("crawl complete", runID,
		"sites", rep.Summary.Sites,
		"libraries", rep.Summary.Libraries,
		"links", rep.Summary.Links,
		"permissions", rep.Summary.Permissions,
		"errors", len(rep.Errors))
	return rep
}

func (a *Aggregator) recordCancelled(rep *report.Report) {
	a.logger.Warn("crawl cancelled", "run_id", rep.RunID)
	rep.RecordError(report.CollectionError{
		Scope:   report.ScopeRun,
		Cause:   report.CauseCancelled,
		Message: "crawl cancelled before completion; report contains partial data",
	})
}

// RunStatus derives the run outcome from the finished report.
func RunStatus(rep *report.Report) crawl.Status {
	for _, e := range rep.Errors {
		if e.Cause == report.CauseCancelled && e.Scope == report.ScopeRun {
			return crawl.StatusCancelled
		}
	}
	if rep.HasRunFatalError() {
		return crawl.StatusFailed
	}
	if len(rep.Errors) > 0 {
		return crawl.StatusPartial
	}
	return crawl.StatusCompleted
}
