package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/manifest"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <ADDON_ID>...",
		Aliases: []string{"uninstall"},
		Short:   "Remove installed addons",
		Long: `Remove addons by id. Every module directory recorded for the addon is
deleted and the addon is dropped from the manifest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args)
		},
	}

	return cmd
}

func runRemove(cmd *cobra.Command, ids []string) error {
	out := cmd.OutOrStdout()
	eng, tgt, err := setup(out)
	if err != nil {
		return err
	}

	store := manifest.NewStore()
	var failed []error
	for _, id := range ids {
		addon, found, err := store.Find(tgt.Root, id)
		if err != nil {
			return fmt.Errorf("failed to read installed addons: %w", err)
		}
		if !found {
			failed = append(failed, errors.Wrapf(errors.ErrAddonNotFound, "%s is not installed in %s", id, tgt.Root))
			continue
		}
		res, err := eng.Remove(cmd.Context(), tgt.Root, tgt.Flavor, addon)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		_, _ = fmt.Fprintln(out, res.Message)
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to remove %d of %d addon(s): %w", len(failed), len(ids), stderrors.Join(failed...))
	}
	return nil
}
