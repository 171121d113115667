package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/internal/cli"
	"github.com/glorpus-work/wam/pkg/config"
)

var (
	configPath string
	verbose    bool
	noColor    bool
	flavor     string
	root       string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wam",
		Short: "A World of Warcraft addon manager",
		Long: `wam keeps the addons in a World of Warcraft AddOns directory in sync with
the addon catalog:
- search the catalog and install addons by id
- see which installed addons are outdated and update them
- remove addons together with every folder they installed`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			path := configPath
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			if err := config.EnsureConfigDir(path); err != nil {
				return fmt.Errorf("cannot establish configuration location: %w", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/wam/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVarP(&flavor, "flavor", "f", "", "game flavor: retail or classic (default from config)")
	cmd.PersistentFlags().StringVarP(&root, "root", "r", "", "addon directory (default from config paths)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor
	cli.FlavorFlag = &flavor
	cli.RootFlag = &root

	// Add subcommands
	cmd.AddCommand(
		cli.NewInitCmd(),
		cli.NewSearchCmd(),
		cli.NewStatusCmd(),
		cli.NewListCmd(),
		cli.NewInstallCmd(),
		cli.NewUpdateCmd(),
		cli.NewRemoveCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
