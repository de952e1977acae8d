// Package progress renders per-transfer progress bars on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/open-benchmark-platform/bench-composer/internal/acquire"
)

// BarReporter draws one byte-progress bar per download attempt. It
// implements acquire.TransferReporter.
type BarReporter struct {
	out io.Writer
}

// NewBarReporter builds a reporter writing to out, or to stderr when out is
// nil so bars never mix with command output on stdout.
func NewBarReporter(out io.Writer) *BarReporter {
	if out == nil {
		out = os.Stderr
	}
	return &BarReporter{out: out}
}

// StartTransfer implements acquire.TransferReporter. A non-positive total
// renders a spinner instead of a percentage bar.
func (r *BarReporter) StartTransfer(fileName string, totalBytes int64) acquire.TransferTracker {
	if totalBytes <= 0 {
		totalBytes = -1
	}
	bar := progressbar.NewOptions64(totalBytes,
		progressbar.OptionSetDescription(fmt.Sprintf("downloading %s", fileName)),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	return &barTracker{bar: bar, out: r.out}
}

type barTracker struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

func (t *barTracker) Write(p []byte) (int, error) {
	return t.bar.Write(p)
}

// Finish ends the bar line. Exit leaves the rendered progress where it is,
// so an aborted attempt does not show as 100% complete.
func (t *barTracker) Finish() {
	_ = t.bar.Exit()
	fmt.Fprintln(t.out)
}
