package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// barReporter renders crawl progress as a terminal progress bar. All calls
// come from the single orchestrating goroutine; the mutex only guards
// against Close racing a late update.
type barReporter struct {
	mu  sync.Mutex
	p   *mpb.Progress
	bar *mpb.Bar
}

func newBarReporter() *barReporter {
	return &barReporter{
		p: mpb.New(mpb.WithWidth(64), mpb.WithOutput(os.Stderr)),
	}
}

func (r *barReporter) ReportStage(stage, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", stage, message)
	}
}

func (r *barReporter) ReportSiteProgress(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		r.bar = r.p.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("sites:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
			),
		)
	}
	r.bar.SetCurrent(int64(done))
}

// Close finishes the bar, aborting it if the crawl ended early.
func (r *barReporter) Close() {
	r.mu.Lock()
	if r.bar != nil && !r.bar.Completed() {
		r.bar.Abort(false)
	}
	r.mu.Unlock()
	r.p.Wait()
}
