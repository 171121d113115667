package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/internal/logger"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Start tracking an addon directory",
		Long: `Create an empty addon manifest (.addons.json) in the addon directory of
the selected flavor. Existing manifests are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd)
		},
	}

	return cmd
}

func runInit(cmd *cobra.Command) error {
	eng, tgt, err := setup(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := eng.Initialize(tgt.Root); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", tgt.Root, err)
	}

	logger.Success("Addon directory initialized", logger.Fields{"root": tgt.Root, "flavor": tgt.Flavor.String()})
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s addons in %s\n", tgt.Flavor, tgt.Root)
	return nil
}
