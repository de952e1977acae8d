package main

import (
	"github.com/spf13/cobra"

	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/profilesync"
)

// createSyncCommand creates the sync subcommand
func createSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the local benchmark definition tree",
		Long: `Sync clones the phoronix test profile tree into the configured
clone directory, or fast-forwards it when it is already there. Only the
profile subtree is checked out.`,
		Args: cobra.NoArgs,
		RunE: executeSync,
	}
}

// executeSync handles the sync command execution logic
func executeSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}
	return syncProfiles(cfg)
}

// syncProfiles updates the definition checkout; install and list share it.
func syncProfiles(cfg *config.GlobalConfig) error {
	cloneDir, err := config.NewConfigHelpers(cfg).CloneDir()
	if err != nil {
		return err
	}
	return profilesync.New(cloneDir, cfg.Profiles).Sync()
}
