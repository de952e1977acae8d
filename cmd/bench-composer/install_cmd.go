package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-benchmark-platform/bench-composer/internal/catalog"
	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/installer"
	"github.com/open-benchmark-platform/bench-composer/internal/progress"
)

// Install command flags
var (
	installNoSync         bool          // --no-sync
	installAttemptTimeout time.Duration // --attempt-timeout
)

// createInstallCommand creates the install subcommand
func createInstallCommand() *cobra.Command {
	installCmd := &cobra.Command{
		Use:   "install BENCHMARK [VERSION]",
		Short: "Install a benchmark version",
		Long: `Install converts one phoronix test profile into a standalone
benchmark directory: settings presets, installer scripts, a setup wrapper,
benchmark metadata, and every downloaded and verified artifact the profile
names. Without a version the latest one is installed.`,
		Args:              cobra.RangeArgs(1, 2),
		RunE:              executeInstall,
		ValidArgsFunction: benchmarkNameCompletion,
	}

	installCmd.Flags().BoolVar(&installNoSync, "no-sync", false,
		"Skip syncing the profile tree first")
	installCmd.Flags().DurationVar(&installAttemptTimeout, "attempt-timeout", 0,
		"Deadline per download attempt, e.g. 90s (overrides the config file)")
	return installCmd
}

// executeInstall handles the install command execution logic
func executeInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}
	if installAttemptTimeout > 0 {
		cfg.Download.AttemptTimeout = config.Duration(installAttemptTimeout)
	}
	if !installNoSync {
		if err := syncProfiles(cfg); err != nil {
			return err
		}
	}

	helpers := config.NewConfigHelpers(cfg)
	root, err := helpers.ProfileRoot()
	if err != nil {
		return err
	}
	ix, err := catalog.Build(root)
	if err != nil {
		return err
	}

	ins, err := installer.New(installer.Options{
		Index:    ix,
		Helpers:  helpers,
		Reporter: progress.NewBarReporter(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	version := ""
	if len(args) == 2 {
		version = args[1]
	}
	targetDir, err := ins.Install(cmd.Context(), args[0], version)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), targetDir)
	return nil
}
