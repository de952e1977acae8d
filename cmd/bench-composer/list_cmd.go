package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/open-benchmark-platform/bench-composer/internal/catalog"
	"github.com/open-benchmark-platform/bench-composer/internal/config"
	"github.com/open-benchmark-platform/bench-composer/internal/platform"
)

// platformFlag is a pflag.Value that only accepts known platform tags, so a
// typo fails at flag parse time instead of producing an empty listing.
type platformFlag struct {
	tag platform.Tag
}

var _ pflag.Value = (*platformFlag)(nil)

func (f *platformFlag) String() string { return string(f.tag) }

func (f *platformFlag) Set(s string) error {
	tag, err := platform.Parse(s)
	if err != nil {
		return err
	}
	f.tag = tag
	return nil
}

func (f *platformFlag) Type() string { return "platform" }

// createListCommand creates the list subcommand
func createListCommand() *cobra.Command {
	var platformArg platformFlag
	var allPlatforms bool
	var noSync bool

	listCmd := &cobra.Command{
		Use:   "list [BENCHMARK]",
		Short: "List installable benchmark versions",
		Long: `List prints every benchmark version the local profile tree offers
for a platform, one "name @ version [platform]" line each. With a
benchmark name only that benchmark's versions are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, platformArg.tag, allPlatforms, noSync)
		},
		ValidArgsFunction: benchmarkNameCompletion,
	}

	listCmd.Flags().VarP(&platformArg, "platform", "p",
		"Platform to list versions for: linux, darwin or windows (default: the running one)")
	listCmd.Flags().BoolVar(&allPlatforms, "all-platforms", false,
		"List versions for every platform")
	listCmd.Flags().BoolVar(&noSync, "no-sync", false,
		"Skip syncing the profile tree first")
	return listCmd
}

func runList(cmd *cobra.Command, args []string, tag platform.Tag, allPlatforms, noSync bool) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}
	if !noSync {
		if err := syncProfiles(cfg); err != nil {
			return err
		}
	}

	if allPlatforms {
		tag = ""
	} else if tag == "" {
		if tag, err = platform.Current(); err != nil {
			return err
		}
	}

	root, err := config.NewConfigHelpers(cfg).ProfileRoot()
	if err != nil {
		return err
	}
	ix, err := catalog.Build(root)
	if err != nil {
		return err
	}

	names := ix.Benchmarks()
	if len(args) == 1 {
		entry, err := ix.Lookup(args[0])
		if err != nil {
			return err
		}
		names = []string{entry.Name}
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		entry, err := ix.Lookup(name)
		if err != nil {
			return err
		}
		for _, version := range entry.SupportedVersions(tag) {
			if tag != "" {
				fmt.Fprintf(out, "%s @ %s [%s]\n", name, version, tag)
				continue
			}
			for _, t := range entry.Versions[version] {
				fmt.Fprintf(out, "%s @ %s [%s]\n", name, version, t)
			}
		}
	}
	return nil
}
