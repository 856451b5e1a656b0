package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"romhack-catalog/catalog"
	"romhack-catalog/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one catalog entry",
	Example: `  romhacks show pokemon-heart-soul
  romhacks show pokeharbor-radical-red`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, entries, err := bootstrap(flagConfigDir)
		if err != nil {
			return err
		}
		e, err := catalog.Lookup(entries, args[0])
		if err != nil {
			return err
		}
		renderEntry(os.Stdout, e)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func renderEntry(w io.Writer, e catalog.Entry) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Fprintln(w, title.Render(e.Title))
	fmt.Fprintln(w, e.Summary)
	fmt.Fprintln(w)

	rows := [][2]string{
		{"ID", e.ID},
		{"Platform", ui.Platform(e.Platform)},
		{"Version", e.VersionLabel},
		{"Status", ui.Status(e.Status)},
		{"Tags", strings.Join(e.Tags, ", ")},
		{"Listing", fmt.Sprintf("%s (%s)", e.OfficialURL, e.OfficialLabel)},
		{"Cover", e.ImageSrc},
		{"Alt text", e.ImageAlt},
		{"Source page", fmt.Sprintf("%d", e.SourcePage)},
		{"Verified", e.VerifiedOn},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", label.Render(fmt.Sprintf("%-12s", r[0])), r[1])
	}
}
