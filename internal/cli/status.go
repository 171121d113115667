package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/pkg/model"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var outdatedOnly bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which installed addons have updates",
		Long: `Compare the installed addons with the catalog. An addon is outdated when
the catalog's latest stable file is newer than the installed one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, outdatedOnly)
		},
	}

	cmd.Flags().BoolVar(&outdatedOnly, "outdated", false, "Only list addons with an update")

	return cmd
}

func runStatus(cmd *cobra.Command, outdatedOnly bool) error {
	out := cmd.OutOrStdout()
	eng, tgt, err := setup(out)
	if err != nil {
		return err
	}

	report, err := eng.Status(cmd.Context(), tgt.Root, tgt.Flavor)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if len(report.Statuses) == 0 {
		_, _ = fmt.Fprintf(out, "No addons installed in %s\n", tgt.Root)
		return nil
	}

	_, _ = fmt.Fprintf(out, "%-*s %-*s %-*s %s\n", NameWidth, "NAME", ColumnWidth, "STATUS", ColumnWidth, "INSTALLED", "AVAILABLE")
	rule(out)
	for _, row := range report.Statuses {
		if outdatedOnly && row.Status != model.StatusOutdated {
			continue
		}
		available := row.DisplayVersion
		if row.Divergent {
			available += faint(" *")
		}
		_, _ = fmt.Fprintf(out, "%-*s %s %-*s %s\n",
			NameWidth, truncate(row.Addon.Name, MaxNameWidth),
			statusLabel(row.Status),
			ColumnWidth, row.Addon.Version,
			available)
	}
	_, _ = fmt.Fprintf(out, "\n%d of %d addon(s) outdated\n", report.Outdated(), len(report.Statuses))
	return nil
}
