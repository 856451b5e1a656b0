package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"romhack-catalog/catalog"
	"romhack-catalog/logger"

	"go.uber.org/zap"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog for data defects",
	Long: `Check every entry for duplicate ids, unknown statuses, empty required
fields, non-https or off-site URLs, a missing "community" tag, invalid
source pages and mixed verification dates.

Validates the configured catalog, or the JSON file given with --file.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		var entries []catalog.Entry
		var err error
		if validateFile != "" {
			entries, err = catalog.Load(validateFile)
		} else {
			_, entries, err = bootstrap(flagConfigDir)
		}
		if err != nil {
			return err
		}
		return runValidate(os.Stdout, entries)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Validate this JSON snapshot instead of the configured catalog")
}

func runValidate(w io.Writer, entries []catalog.Entry) error {
	err := catalog.Validate(entries)
	if err == nil {
		fmt.Fprintf(w, "%s %d entries, no problems found\n", color.GreenString("ok"), len(entries))
		return nil
	}

	problems := catalog.Problems(err)
	for _, p := range problems {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("-"), p.Error())
	}
	logger.Log.Warnw("Catalog validation failed", zap.Int("problems", len(problems)), zap.Int("entries", len(entries)))
	return fmt.Errorf("%d problem(s) in %d entries", len(problems), len(entries))
}
