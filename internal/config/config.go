package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/open-benchmark-platform/bench-composer/internal/config/validate"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = "bench-composer.yml"

// GlobalConfig holds the tool-wide configuration.
type GlobalConfig struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Profiles  ProfilesConfig  `yaml:"profiles"`
	Download  DownloadConfig  `yaml:"download"`
	Logging   LoggingConfig   `yaml:"logging"`
	Export    ExportConfig    `yaml:"export"`
}

// WorkspaceConfig locates the local working directories.
type WorkspaceConfig struct {
	// CloneDir is where the benchmark definition tree is synced to.
	CloneDir string `yaml:"cloneDir"`
	// InstallDir is where converted benchmarks are assembled.
	InstallDir string `yaml:"installDir"`
}

// ProfilesConfig describes the remote benchmark definition source.
type ProfilesConfig struct {
	Remote  string `yaml:"remote"`
	Branch  string `yaml:"branch"`
	SubPath string `yaml:"subPath"`
}

// DownloadConfig tunes the acquisition engine.
type DownloadConfig struct {
	// AttemptTimeout bounds a single download attempt from one source.
	// Zero disables the deadline, which matches the historical behavior;
	// a timed-out source is treated like any other failed source and the
	// next one is tried.
	AttemptTimeout Duration `yaml:"attemptTimeout"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	// Format is one of gzip, zstd, xz.
	Format string `yaml:"format"`
}

// Duration wraps time.Duration so YAML values like "90s" or "10m" decode.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration used when no config file is
// present. The directory names mirror the layout the tool has always used.
func Default() *GlobalConfig {
	return &GlobalConfig{
		Workspace: WorkspaceConfig{
			CloneDir:   "phoronix-benchs",
			InstallDir: "phoronix-converted",
		},
		Profiles: ProfilesConfig{
			Remote:  "https://github.com/phoronix-test-suite/phoronix-test-suite",
			Branch:  "master",
			SubPath: "ob-cache/test-profiles/pts",
		},
		Download: DownloadConfig{
			AttemptTimeout: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Format: "zstd",
		},
	}
}

// LoadConfig reads the configuration file at path. An empty path falls back
// to DefaultConfigFile in the working directory; if that does not exist the
// built-in defaults are returned. An explicitly named file must exist.
func LoadConfig(path string) (*GlobalConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := parseYAMLConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// parseYAMLConfig validates the raw YAML against the config schema and
// unmarshals it on top of the defaults, so omitted fields keep their
// built-in values. An empty document yields the defaults.
func parseYAMLConfig(data []byte) (*GlobalConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}
	if err := validate.ValidateConfigYAML(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
