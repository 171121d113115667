package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wam/pkg/manifest"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed addons",
		Long:  "List the addons recorded in the manifest of the addon directory, without contacting the catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tgt, err := resolveTarget(cfg)
	if err != nil {
		return err
	}

	m, err := manifest.NewStore().Load(tgt.Root)
	if err != nil {
		return fmt.Errorf("failed to read installed addons: %w", err)
	}
	if len(m.Addons) == 0 {
		_, _ = fmt.Fprintf(out, "No addons installed in %s\n", tgt.Root)
		return nil
	}

	_, _ = fmt.Fprintf(out, "%-10s %-*s %-*s %-*s %s\n", "ID", NameWidth, "NAME", ColumnWidth, "VERSION", ColumnWidth, "GAME", "MODULES")
	rule(out)
	for _, a := range m.Addons {
		_, _ = fmt.Fprintf(out, "%-10s %-*s %-*s %s %d\n",
			a.ID,
			NameWidth, truncate(a.Name, MaxNameWidth),
			ColumnWidth, a.Version,
			faint(fmt.Sprintf("%-*s", ColumnWidth, a.GameVersion)),
			len(a.Modules))
	}
	_, _ = fmt.Fprintf(out, "\n%d addon(s) installed\n", len(m.Addons))
	return nil
}
