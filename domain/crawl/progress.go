package crawl

// Stage names reported during a crawl.
var StandardStages = struct {
	Discovery   string
	Scanning    string
	Collecting  string
	Summarizing string
}{
	Discovery:   "discovery",
	Scanning:    "scanning",
	Collecting:  "collecting",
	Summarizing: "summarizing",
}

// ProgressReporter receives crawl progress updates. Implementations must be
// safe for calls from the single orchestrating goroutine only.
type ProgressReporter interface {
	// ReportStage announces entry into a named stage with a message.
	ReportStage(stage, message string)
	// ReportSiteProgress reports completed sites out of the discovered total.
	ReportSiteProgress(done, total int)
}

// NoOpProgressReporter discards all progress updates.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) ReportStage(stage, message string) {}
func (NoOpProgressReporter) ReportSiteProgress(done, total int) {}
