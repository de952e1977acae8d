// Package installer converts a phoronix test profile into a standalone
// benchmark directory: presets, installer scripts, a setup wrapper,
// benchmark metadata, and every artifact the profile's download manifest
// names, then runs the platform installer inside the assembled tree.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-benchmark-platform/bench-composer/internal/acquire"
	"github.com/open-benchmark-platform/bench-composer/internal/catalog"
	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/convert"
	"github.com/open-benchmark-platform/bench-composer/internal/manifest"
	"github.com/open-benchmark-platform/bench-composer/internal/platform"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/shell"
)

const (
	testDefinitionFile    = "test-definition.xml"
	resultsDefinitionFile = "results-definition.xml"
	downloadManifestFile  = "downloads.xml"
)

// ErrUnsupportedPlatform is returned when a benchmark ships no installer
// script for the platform the install runs on.
var ErrUnsupportedPlatform = errors.New("platform not supported by this benchmark")

// Acquirer obtains one verified artifact. *acquire.Engine satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context, pkg manifest.Package, targetDir string) (acquire.Result, error)
}

// Installer assembles benchmark directories out of one catalog.
type Installer struct {
	index    *catalog.Index
	helpers  *config.ConfigHelpers
	engine   Acquirer
	platform platform.Tag
}

// Options configures an Installer. Index and Helpers are required; a nil
// Engine gets replaced by an acquisition engine built for the same platform
// with the configured per-attempt timeout.
type Options struct {
	Index   *catalog.Index
	Helpers *config.ConfigHelpers
	Engine  Acquirer
	// Platform overrides the running platform, mainly for tests.
	Platform platform.Tag
	// Reporter is handed to the default engine; ignored when Engine is set.
	Reporter acquire.TransferReporter
}

// New builds an Installer from the given options.
func New(opts Options) (*Installer, error) {
	if opts.Index == nil {
		return nil, errors.New("installer: no catalog index given")
	}
	if opts.Helpers == nil {
		return nil, errors.New("installer: no config helpers given")
	}
	if opts.Platform == "" {
		tag, err := platform.Current()
		if err != nil {
			return nil, err
		}
		opts.Platform = tag
	}
	if opts.Engine == nil {
		engine, err := acquire.NewEngine(acquire.Options{
			Platform:       opts.Platform,
			AttemptTimeout: opts.Helpers.AttemptTimeout(),
			Reporter:       opts.Reporter,
		})
		if err != nil {
			return nil, err
		}
		opts.Engine = engine
	}
	return &Installer{
		index:    opts.Index,
		helpers:  opts.Helpers,
		engine:   opts.Engine,
		platform: opts.Platform,
	}, nil
}

// Install converts the named benchmark version into a runnable directory and
// returns its path. An empty version selects the latest one. The directory
// layout after a successful install:
//
//	phoronix-<name>-<version>/
//	  presets/preset-*.json   one settings preset per test option entry
//	  install*.sh             the profile's installer scripts
//	  setup.sh                platform dispatch wrapper
//	  benchmark.json          name, run command, presets, result patterns
//	  acquisition-report.json outcome of every artifact acquisition
//	  <artifacts>             the downloaded and verified files
//
// Artifact acquisition is sequential and any unobtainable artifact aborts
// the install. Cancelling ctx stops acquisition; completed steps are left
// in place for a rerun to reuse.
func (ins *Installer) Install(ctx context.Context, name, version string) (string, error) {
	log := logger.Logger()

	version, err := ins.resolveVersion(name, version)
	if err != nil {
		return "", err
	}

	benchDir := ins.index.DefinitionDir(name, version)
	def, err := convert.LoadTestDefinition(filepath.Join(benchDir, testDefinitionFile))
	if err != nil {
		return "", err
	}
	results, err := convert.LoadResultsDefinition(filepath.Join(benchDir, resultsDefinitionFile))
	if err != nil {
		return "", err
	}

	if err := ins.helpers.CreateInstallDir(); err != nil {
		return "", err
	}
	targetDir, err := ins.helpers.BenchmarkTargetDir(name, version)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", targetDir, err)
	}

	defaultPreset, err := convert.WritePresets(def.PresetEntries(), filepath.Join(targetDir, "presets"))
	if err != nil {
		return "", err
	}
	if err := convert.CopyInstallers(benchDir, targetDir); err != nil {
		return "", err
	}
	if err := convert.WriteSetupScript(targetDir, name); err != nil {
		return "", err
	}
	if err := convert.WriteBenchmarkInfo(targetDir, convert.NewInfo(def, results, defaultPreset, name)); err != nil {
		return "", err
	}

	report, err := ins.acquireArtifacts(ctx, benchDir, targetDir, name, version)
	if err != nil {
		return "", err
	}
	if err := report.Write(targetDir); err != nil {
		log.Warnf("could not write acquisition report: %v", err)
	}

	if err := ins.runInstaller(targetDir, name); err != nil {
		return "", err
	}

	log.Infof("benchmark %s @ %s installed into %s", name, version, targetDir)
	return targetDir, nil
}

// resolveVersion validates an explicit version or falls back to the latest
// one. An unknown benchmark or version is an error either way.
func (ins *Installer) resolveVersion(name, version string) (string, error) {
	log := logger.Logger()

	if version == "" {
		latest, err := ins.index.Latest(name)
		if err != nil {
			return "", err
		}
		log.Infof("benchmark version not specified, defaulting to latest (%s)", latest)
		return latest, nil
	}

	ok, err := ins.index.Exists(name, version)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("benchmark %s @ %s doesn't exist: %w", name, version, catalog.ErrVersionNotFound)
	}
	log.Infof("selected benchmark version: %s", version)
	return version, nil
}

// acquireArtifacts walks the download manifest one artifact at a time and
// records each outcome. The first unobtainable artifact aborts the walk.
func (ins *Installer) acquireArtifacts(ctx context.Context, benchDir, targetDir, name, version string) (*Report, error) {
	packages := manifest.ParseFile(filepath.Join(benchDir, downloadManifestFile))
	report := NewReport(name, version)
	for _, pkg := range packages {
		res, err := ins.engine.Acquire(ctx, pkg, targetDir)
		if err != nil {
			return nil, fmt.Errorf("acquiring artifacts for %s: %w", name, err)
		}
		report.Add(pkg, res)
	}
	return report, nil
}

// runInstaller executes the platform's installer script inside the target
// directory with HOME pointed there, so everything the script unpacks lands
// in the benchmark's own tree.
func (ins *Installer) runInstaller(targetDir, name string) error {
	log := logger.Logger()

	script := ins.platform.InstallerFile()
	if _, err := os.Stat(filepath.Join(targetDir, script)); err != nil {
		return fmt.Errorf("benchmark %s: current platform (%s): %w", name, ins.platform, ErrUnsupportedPlatform)
	}

	log.Infof("running %s for %s", script, name)
	if _, err := shell.ExecCmdWithStream("bash "+script, targetDir, []string{"HOME=" + targetDir}); err != nil {
		return fmt.Errorf("running installer for %s: %w", name, err)
	}
	return nil
}
