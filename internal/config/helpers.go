package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ConfigHelpers provides convenient access to global configuration
type ConfigHelpers struct {
	config *GlobalConfig
}

// NewConfigHelpers creates a new config helpers instance
func NewConfigHelpers(config *GlobalConfig) *ConfigHelpers {
	return &ConfigHelpers{config: config}
}

// CloneDir returns the absolute path to the benchmark definition checkout
func (c *ConfigHelpers) CloneDir() (string, error) {
	return filepath.Abs(c.config.Workspace.CloneDir)
}

// ProfileRoot returns the absolute path to the benchmark profile tree
// inside the checkout
func (c *ConfigHelpers) ProfileRoot() (string, error) {
	cloneDir, err := c.CloneDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cloneDir, filepath.FromSlash(c.config.Profiles.SubPath)), nil
}

// InstallDir returns the absolute path to the install directory
func (c *ConfigHelpers) InstallDir() (string, error) {
	return filepath.Abs(c.config.Workspace.InstallDir)
}

// BenchmarkTargetDir returns the directory a converted benchmark is
// assembled into
func (c *ConfigHelpers) BenchmarkTargetDir(name, version string) (string, error) {
	installDir, err := c.InstallDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(installDir, fmt.Sprintf("phoronix-%s-%s", name, version)), nil
}

// AttemptTimeout returns the per-source download deadline, zero meaning none
func (c *ConfigHelpers) AttemptTimeout() time.Duration {
	return c.config.Download.AttemptTimeout.Std()
}

// LogLevel returns the configured log level
func (c *ConfigHelpers) LogLevel() string {
	return c.config.Logging.Level
}

// IsDebugMode returns true if debug logging is enabled
func (c *ConfigHelpers) IsDebugMode() bool {
	return c.config.Logging.Level == "debug"
}

// ExportFormat returns the default archive format for exports
func (c *ConfigHelpers) ExportFormat() string {
	return c.config.Export.Format
}

// GetConfig returns the underlying global config (for advanced usage)
func (c *ConfigHelpers) GetConfig() *GlobalConfig {
	return c.config
}

// CreateCloneDir ensures the checkout directory exists
func (c *ConfigHelpers) CreateCloneDir() error {
	cloneDir, err := c.CloneDir()
	if err != nil {
		return fmt.Errorf("resolving clone directory: %w", err)
	}
	return createDirIfNotExists(cloneDir)
}

// CreateInstallDir ensures the install directory exists
func (c *ConfigHelpers) CreateInstallDir() error {
	installDir, err := c.InstallDir()
	if err != nil {
		return fmt.Errorf("resolving install directory: %w", err)
	}
	return createDirIfNotExists(installDir)
}

// Helper function to create directories
func createDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
