package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"romhack-catalog/catalog"
	"romhack-catalog/ui"
)

type listOptions struct {
	filter catalog.Filter
	json   bool
}

var listOpts listOptions

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Long: `List catalog entries in source order, optionally filtered.

Examples:
  romhacks list --platform "ROM Hacking GBA" --status Playable
  romhacks list --site pokeharbor --search emerald
  romhacks list --tag rom-hacking-nds --json`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runList(listOpts)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	f := listCmd.Flags()
	f.StringVar(&listOpts.filter.Platform, "platform", "", "Only entries for this platform (name or tag)")
	f.StringVar(&listOpts.filter.Status, "status", "", "Only entries with this status (Playable, \"Active Development\")")
	f.StringVar(&listOpts.filter.Site, "site", "", "Only entries from this site (whackahack, pokeharbor)")
	f.StringVar(&listOpts.filter.Tag, "tag", "", "Only entries carrying this tag")
	f.StringVarP(&listOpts.filter.Search, "search", "s", "", "Search titles, platforms, versions and tags")
	f.BoolVar(&listOpts.json, "json", false, "Print matching entries as JSON")
}

func runList(opts listOptions) error {
	_, entries, err := bootstrap(flagConfigDir)
	if err != nil {
		return err
	}

	if err := checkFilter(opts.filter); err != nil {
		return err
	}

	matched := opts.filter.Apply(entries)
	if opts.json {
		return catalog.EncodeJSON(os.Stdout, matched)
	}
	renderList(os.Stdout, matched, len(entries))
	return nil
}

// checkFilter rejects status and site flags that could never match; both
// compare case-insensitively like Filter.Apply.
func checkFilter(f catalog.Filter) error {
	if f.Status != "" {
		if _, err := catalog.LookupStatus(f.Status); err != nil {
			return err
		}
	}
	if f.Site != "" {
		if _, ok := catalog.LookupSite(f.Site); !ok {
			return fmt.Errorf("unknown site %q", f.Site)
		}
	}
	return nil
}

func renderList(w io.Writer, entries []catalog.Entry, total int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries match.")
		return
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fmt.Fprintln(w, header.Render(fmt.Sprintf("%-34s %-36s %-18s %-20s %s", "ID", "Title", "Platform", "Version", "Status")))

	for _, e := range entries {
		// pad before coloring so escape codes don't break alignment
		platform := ui.Colorize(padRight(truncate(e.Platform, 18), 18), ui.PlatformColor(e.Platform))
		fmt.Fprintf(w, "%s %s %s %s %s\n",
			padRight(truncate(e.ID, 34), 34),
			padRight(truncate(e.Title, 36), 36),
			platform,
			padRight(truncate(e.VersionLabel, 20), 20),
			ui.Status(e.Status),
		)
	}

	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	fmt.Fprintln(w, footer.Render(fmt.Sprintf("%d of %d entries, verified %s", len(entries), total, catalog.SnapshotDate(entries))))
}
