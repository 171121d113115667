package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the addon catalog",
		Long: `Search the catalog for addons whose name matches the query. Only addons
with a stable release for the selected flavor are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0])
		},
	}

	return cmd
}

func runSearch(cmd *cobra.Command, query string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flavor := cfg.DefaultFlavor()
	if FlavorFlag != nil && *FlavorFlag != "" {
		// search needs no root, only the flavor
		if flavor, err = parseFlavorFlag(); err != nil {
			return err
		}
	}

	results, err := loadEngine(cfg, out).Search(cmd.Context(), query, flavor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintf(out, "No addons found matching '%s'\n", query)
		return nil
	}

	_, _ = fmt.Fprintf(out, "%-10s %-*s %-*s %-*s %s\n", "ID", NameWidth, "NAME", ColumnWidth, "GAME", ColumnWidth, "DATE", "DOWNLOADS")
	rule(out)
	for _, r := range results {
		// cells are name, game version, file date, download count
		_, _ = fmt.Fprintf(out, "%-10s %-*s %-*s %-*s %s\n",
			r.Addon.ID,
			NameWidth, truncate(r.Cells[0], MaxNameWidth),
			ColumnWidth, r.Cells[1],
			ColumnWidth, r.Cells[2],
			r.Cells[3])
	}
	_, _ = fmt.Fprintf(out, "\nFound %d addon(s) matching '%s'\n", len(results), query)
	return nil
}
