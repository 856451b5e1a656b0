package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagNoColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "romhacks",
	Short: "Browse and check the community ROM hack catalog",
	Long: `romhacks works with a catalog of community ROM hacks collected from
the Whack a Hack and PokeHarbor listing sites.

The catalog ships inside the binary. Commands list, search and export it,
validate its data, mirror it into a local SQLite database, check that every
listing and cover image is still reachable, and browse it in a terminal UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor {
			color.NoColor = true
			os.Setenv("NO_COLOR", "1")
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", ".", "Directory containing the .env config file")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}
