package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/pkg/reconcile"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update [ADDON_ID...]",
		Short: "Update installed addons",
		Long: `Update every outdated addon, or only the given ids. Each update downloads
the new archive first, then replaces the old module directories. A failed
update does not stop the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending updates without applying them")

	return cmd
}

func runUpdate(cmd *cobra.Command, ids []string, dryRun bool) error {
	out := cmd.OutOrStdout()
	eng, tgt, err := setup(out)
	if err != nil {
		return err
	}

	report, err := eng.Status(cmd.Context(), tgt.Root, tgt.Flavor)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	candidates := selectCandidates(report.Candidates, ids)
	if len(candidates) == 0 {
		_, _ = fmt.Fprintln(out, "All addons are up to date")
		return nil
	}

	if dryRun {
		for _, c := range candidates {
			_, _ = fmt.Fprintf(out, "%-*s %s -> %s\n", NameWidth, truncate(c.Installed.Name, MaxNameWidth), c.Installed.Version, c.Update.Version)
		}
		return nil
	}

	results, err := eng.UpdateAll(cmd.Context(), tgt.Root, tgt.Flavor, candidates)
	for _, r := range results {
		_, _ = fmt.Fprintln(out, r.Message)
	}
	if err != nil {
		return fmt.Errorf("some updates failed: %w", err)
	}
	return nil
}

// selectCandidates keeps the candidates whose id is listed. No ids keeps all.
func selectCandidates(all []reconcile.Candidate, ids []string) []reconcile.Candidate {
	if len(ids) == 0 {
		return all
	}
	out := make([]reconcile.Candidate, 0, len(ids))
	for _, c := range all {
		if slices.Contains(ids, c.Installed.ID) {
			out = append(out, c)
		}
	}
	return out
}
