package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"romhack-catalog/catalog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count entries by site, platform and status",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, entries, err := bootstrap(flagConfigDir)
		if err != nil {
			return err
		}
		renderStats(os.Stdout, catalog.Stats(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func renderStats(w io.Writer, b catalog.Breakdown) {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	fmt.Fprintf(w, "%s %d entries (verified %s)\n", heading.Render("Catalog:"), b.Total, b.VerifiedOn)
	sections := []struct {
		name   string
		counts []catalog.Count
	}{
		{"Sites", b.BySite},
		{"Platforms", b.ByPlatform},
		{"Statuses", b.ByStatus},
	}
	for _, s := range sections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading.Render(s.name))
		for _, c := range s.counts {
			fmt.Fprintf(w, "  %-24s %4d\n", c.Label, c.N)
		}
	}
}
