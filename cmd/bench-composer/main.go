// bench-composer converts phoronix test profiles into standalone benchmark
// directories: it syncs the profile tree, lists what can be installed,
// assembles and verifies benchmark directories, and exports them as
// compressed archives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/open-benchmark-platform/bench-composer/internal/catalog"
	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

// Root command flags
var (
	configFile string // --config
	logLevel   string // --log-level
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := createRootCommand()
	err := root.ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// createRootCommand assembles the CLI.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bench-composer",
		Short: "Convert phoronix benchmarks into standalone ones with ease",
		Long: `bench-composer turns phoronix test profiles into self-contained
benchmark directories. It keeps a sparse checkout of the profile tree,
converts a profile's settings, installers and result patterns, downloads
and verifies every artifact the profile names, and can pack the result
into a compressed archive for offline transfer.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"Path to the configuration file (default: "+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn or error (overrides the config file)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Shorthand for --log-level debug")

	rootCmd.AddCommand(createSyncCommand())
	rootCmd.AddCommand(createListCommand())
	rootCmd.AddCommand(createInstallCommand())
	rootCmd.AddCommand(createExportCommand())

	attachLoggingHooks(rootCmd)
	return rootCmd
}

// attachLoggingHooks puts the logging setup in front of every subcommand so
// the configured level applies before any command logic runs.
func attachLoggingHooks(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		}
	}
}

func setupLogging(cmd *cobra.Command) error {
	level := resolveRequestedLogLevel(cmd)
	if level == "" {
		cfg, err := loadGlobalConfig()
		if err != nil {
			return err
		}
		level = cfg.Logging.Level
	}
	return logger.Init(level)
}

// resolveRequestedLogLevel returns the level requested on the command line,
// or empty when none was: an explicit --log-level wins over --verbose.
func resolveRequestedLogLevel(cmd *cobra.Command) string {
	if logLevel != "" {
		return logLevel
	}
	if cmd != nil {
		if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
			return "debug"
		}
	}
	return ""
}

// loadGlobalConfig reads the configuration selected by --config.
func loadGlobalConfig() (*config.GlobalConfig, error) {
	return config.LoadConfig(configFile)
}

// benchmarkNameCompletion completes the first positional argument with the
// benchmark names present in the local profile tree. No tree, no
// completions; the shell falls back to nothing rather than file names.
func benchmarkNameCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := loadGlobalConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	root, err := config.NewConfigHelpers(cfg).ProfileRoot()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ix, err := catalog.Build(root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return ix.Benchmarks(), cobra.ShellCompDirectiveNoFileComp
}
