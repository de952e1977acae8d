// Package convert turns an upstream benchmark definition into the locally
// runnable layout: preset files, installer scripts, a setup wrapper, and a
// benchmark info file.
package convert

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// TestDefinition is the typed shape of a test-definition.xml document.
type TestDefinition struct {
	Information TestInformation `xml:"TestInformation"`
	Settings    TestSettings    `xml:"TestSettings"`
}

// TestInformation carries the human-facing benchmark metadata.
type TestInformation struct {
	Title       string `xml:"Title"`
	Description string `xml:"Description"`
}

// TestSettings holds the selectable run options of a benchmark.
type TestSettings struct {
	Options []TestOption `xml:"Option"`
}

// TestOption is one option menu; every menu entry becomes a preset.
type TestOption struct {
	DisplayName string        `xml:"DisplayName"`
	Entries     []PresetEntry `xml:"Menu>Entry"`
}

// PresetEntry is one named argument set:
//
//	<Entry>
//	  <Name>Fast</Name>
//	  <Value>-fast</Value>
//	</Entry>
type PresetEntry struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

// PresetEntries flattens all option menus into one entry list.
func (d *TestDefinition) PresetEntries() []PresetEntry {
	var entries []PresetEntry
	for _, option := range d.Settings.Options {
		entries = append(entries, option.Entries...)
	}
	return entries
}

// LoadTestDefinition parses the test-definition.xml at path. Unlike a
// download manifest, a missing or broken definition is fatal: without it
// there is nothing to convert.
func LoadTestDefinition(path string) (*TestDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test definition: %w", err)
	}
	var def TestDefinition
	if err := xml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing test definition %s: %w", path, err)
	}
	return &def, nil
}

// ResultsDefinition is the typed shape of a results-definition.xml
// document. Results are described either by output-parsing templates or by
// system monitor sensors.
type ResultsDefinition struct {
	Parsers  []ResultsParser `xml:"ResultsParser"`
	Monitors []SystemMonitor `xml:"SystemMonitor"`
}

// ResultsParser extracts a statistic from benchmark output. The
// OutputTemplate marks the captured value with the #_RESULT_# placeholder.
type ResultsParser struct {
	OutputTemplate       string `xml:"OutputTemplate"`
	ArgumentsDescription string `xml:"ArgumentsDescription"`
}

// SystemMonitor samples a sensor instead of parsing output.
type SystemMonitor struct {
	Sensor string `xml:"Sensor"`
}

// StatPattern is how one statistic is recognized in benchmark output.
type StatPattern struct {
	Regex string `json:"regex"`
}

const resultPlaceholder = "#_RESULT_#"

// Stats converts the definition into named capture patterns. Parser
// templates win over monitors when both are present; a parser without an
// arguments description is filed under "results".
func (rd *ResultsDefinition) Stats() map[string]StatPattern {
	stats := make(map[string]StatPattern)
	if len(rd.Parsers) > 0 {
		for _, parser := range rd.Parsers {
			name := strings.TrimSpace(parser.ArgumentsDescription)
			if name == "" {
				name = "results"
			}
			stats[name] = StatPattern{
				Regex: strings.ReplaceAll(parser.OutputTemplate, resultPlaceholder, "(.*)"),
			}
		}
		return stats
	}
	for _, monitor := range rd.Monitors {
		stats["results"] = StatPattern{
			Regex: strings.ReplaceAll(monitor.Sensor, resultPlaceholder, "(.*)"),
		}
	}
	return stats
}

// LoadResultsDefinition parses the results-definition.xml at path.
func LoadResultsDefinition(path string) (*ResultsDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results definition: %w", err)
	}
	var rd ResultsDefinition
	if err := xml.Unmarshal(data, &rd); err != nil {
		return nil, fmt.Errorf("parsing results definition %s: %w", path, err)
	}
	return &rd, nil
}
