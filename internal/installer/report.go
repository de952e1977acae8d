package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/open-benchmark-platform/bench-composer/internal/acquire"
	"github.com/open-benchmark-platform/bench-composer/internal/manifest"
)

// ReportFileName is the acquisition report written into every benchmark
// directory after its artifacts are fetched.
const ReportFileName = "acquisition-report.json"

// ReportEntry records the outcome for one artifact.
type ReportEntry struct {
	FileName  string        `json:"file_name"`
	State     acquire.State `json:"state"`
	Source    string        `json:"source,omitempty"`
	Attempts  int           `json:"attempts,omitempty"`
	Integrity string        `json:"integrity"`
}

// Report collects the acquisition outcome of every artifact of one
// benchmark version. It answers, after the fact, where each file came from
// and how it was verified.
type Report struct {
	Benchmark string        `json:"benchmark"`
	Version   string        `json:"version"`
	Created   time.Time     `json:"created"`
	Artifacts []ReportEntry `json:"artifacts"`
}

// NewReport starts an empty report for one benchmark version.
func NewReport(benchmark, version string) *Report {
	return &Report{
		Benchmark: benchmark,
		Version:   version,
		Created:   time.Now().UTC(),
		Artifacts: []ReportEntry{},
	}
}

// Add appends the outcome of one acquisition.
func (r *Report) Add(pkg manifest.Package, res acquire.Result) {
	r.Artifacts = append(r.Artifacts, ReportEntry{
		FileName:  pkg.FileName,
		State:     res.State,
		Source:    res.Source,
		Attempts:  res.Attempts,
		Integrity: pkg.Integrity.String(),
	})
}

// Write stores the report next to the artifacts it describes.
func (r *Report) Write(dir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding acquisition report: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, ReportFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
