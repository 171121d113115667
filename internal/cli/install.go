package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/internal/logger"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <ADDON_ID>...",
		Short: "Install addons",
		Long: `Install one or more addons by catalog id. The latest stable file for the
selected flavor is downloaded and unpacked into the addon directory. Addons
that are already installed are skipped with an error; use update for those.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args)
		},
	}

	return cmd
}

func runInstall(cmd *cobra.Command, ids []string) error {
	out := cmd.OutOrStdout()
	eng, tgt, err := setup(out)
	if err != nil {
		return err
	}
	if err := eng.Initialize(tgt.Root); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", tgt.Root, err)
	}

	var failed []error
	for _, id := range ids {
		addon, err := eng.Resolve(cmd.Context(), id, tgt.Flavor)
		if err != nil {
			logger.Error("Lookup failed", logger.Fields{"id": id, "error": err.Error()})
			failed = append(failed, fmt.Errorf("%s: %w", id, err))
			continue
		}
		res, err := eng.Install(cmd.Context(), tgt.Root, tgt.Flavor, addon)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		_, _ = fmt.Fprintln(out, green(res.Message))
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to install %d of %d addon(s): %w", len(failed), len(ids), stderrors.Join(failed...))
	}
	return nil
}
