package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-benchmark-platform/bench-composer/internal/catalog"
	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/export"
)

// Export command flags
var (
	exportFormat string // --format
	exportOutDir string // --output
)

// createExportCommand creates the export subcommand
func createExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export BENCHMARK [VERSION]",
		Short: "Pack an installed benchmark into a compressed archive",
		Long: `Export packs an installed benchmark directory into a compressed tar
archive together with a manifest listing every file and its digest, so the
benchmark can be moved to machines without network access and verified
there. The benchmark must have been installed first.`,
		Args:              cobra.RangeArgs(1, 2),
		RunE:              executeExport,
		ValidArgsFunction: benchmarkNameCompletion,
	}

	exportCmd.Flags().StringVar(&exportFormat, "format", "",
		"Archive format: gzip, zstd or xz (default: from the config file)")
	exportCmd.Flags().StringVarP(&exportOutDir, "output", "o", ".",
		"Directory the archive and manifest are written to")
	return exportCmd
}

// executeExport handles the export command execution logic
func executeExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}
	helpers := config.NewConfigHelpers(cfg)

	name := args[0]
	version := ""
	if len(args) == 2 {
		version = args[1]
	}
	if version == "" {
		version, err = latestInstallableVersion(helpers, name)
		if err != nil {
			return err
		}
	}

	srcDir, err := helpers.BenchmarkTargetDir(name, version)
	if err != nil {
		return err
	}
	if _, err := os.Stat(srcDir); err != nil {
		return fmt.Errorf("benchmark %s @ %s is not installed (run install first): %w", name, version, err)
	}

	formatName := exportFormat
	if formatName == "" {
		formatName = helpers.ExportFormat()
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	archivePath, err := export.New(format).Export(srcDir, exportOutDir, name, version)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), archivePath)
	return nil
}

// latestInstallableVersion resolves the omitted version against the local
// profile tree, the same default the install command uses.
func latestInstallableVersion(helpers *config.ConfigHelpers, name string) (string, error) {
	root, err := helpers.ProfileRoot()
	if err != nil {
		return "", err
	}
	ix, err := catalog.Build(root)
	if err != nil {
		return "", err
	}
	return ix.Latest(name)
}
