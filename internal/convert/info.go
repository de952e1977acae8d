package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Info is the benchmark.json document describing a converted benchmark to
// the runner tooling.
type Info struct {
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	DefaultPreset string                 `json:"default_preset"`
	RunCommand    string                 `json:"run_command"`
	Stats         map[string]StatPattern `json:"stats"`
}

// NewInfo assembles the info document from the parsed definitions. The run
// command is the benchmark's own executable, produced by its installer.
func NewInfo(def *TestDefinition, results *ResultsDefinition, defaultPreset, benchmarkName string) Info {
	return Info{
		Name:          def.Information.Title,
		Description:   def.Information.Description,
		DefaultPreset: defaultPreset,
		RunCommand:    "./" + benchmarkName,
		Stats:         results.Stats(),
	}
}

// WriteBenchmarkInfo renders the info document to benchmark.json in dir.
func WriteBenchmarkInfo(dir string, info Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding benchmark info: %w", err)
	}
	path := filepath.Join(dir, "benchmark.json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
