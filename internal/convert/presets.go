package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

// Preset is the content of one preset-<name>.json file.
type Preset struct {
	Args string `json:"args"`
}

const (
	fallbackPresetName = "unique_preset"
	fallbackPresetArgs = "no_setting_specified"
)

// WritePresets renders one preset file per settings entry into dir and
// returns the file name of the default preset, which is the first one
// written. A benchmark without any usable setting still gets a single
// placeholder preset so downstream tooling always finds one.
func WritePresets(entries []PresetEntry, dir string) (string, error) {
	log := logger.Logger()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating presets directory %s: %w", dir, err)
	}

	defaultPreset := ""
	for _, entry := range entries {
		if entry.Name == "" || entry.Value == "" {
			log.Warnf("skipping settings entry with missing name or value (name=%q)", entry.Name)
			continue
		}
		name := strings.ToLower(entry.Name)
		fileName := fmt.Sprintf("preset-%s.json", name)
		if err := writePreset(filepath.Join(dir, fileName), entry.Value); err != nil {
			return "", err
		}
		if defaultPreset == "" {
			defaultPreset = fileName
		}
	}

	if defaultPreset == "" {
		fileName := fmt.Sprintf("preset-%s.json", fallbackPresetName)
		if err := writePreset(filepath.Join(dir, fileName), fallbackPresetArgs); err != nil {
			return "", err
		}
		defaultPreset = fileName
	}
	return defaultPreset, nil
}

func writePreset(path, args string) error {
	data, err := json.Marshal(Preset{Args: args})
	if err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset %s: %w", path, err)
	}
	return nil
}
