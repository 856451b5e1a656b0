package cmd

import (
	"github.com/spf13/cobra"
)

// defaultCmd represents the command that runs when no subcommand is specified
var defaultCmd = &cobra.Command{
	Use:    "default",
	Short:  "Default command when no subcommand is provided",
	Long:   `Lists the whole catalog.`,
	Hidden: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runList(listOptions{})
	},
}

func init() {
	rootCmd.AddCommand(defaultCmd)
	// With no subcommand the root command behaves like default.
	rootCmd.RunE = defaultCmd.RunE
}
