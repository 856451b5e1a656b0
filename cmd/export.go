package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"romhack-catalog/catalog"
	"romhack-catalog/logger"

	"go.uber.org/zap"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog as JSON, YAML or CSV",
	Example: `  romhacks export --format yaml --out catalog.yml
  romhacks export --format csv > catalog.csv`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, entries, err := bootstrap(flagConfigDir)
		if err != nil {
			return err
		}

		if exportOut == "" {
			return exportEntries(os.Stdout, exportFormat, entries)
		}
		if err := exportToFile(exportOut, exportFormat, entries); err != nil {
			return err
		}
		logger.Log.Infow("Exported catalog",
			zap.String("format", exportFormat),
			zap.String("file", exportOut),
			zap.Int("entries", len(entries)),
		)
		fmt.Fprintf(os.Stderr, "Wrote %d entries to %s\n", len(entries), exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, yaml or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func exportEntries(w io.Writer, format string, entries []catalog.Entry) error {
	switch strings.ToLower(format) {
	case "json":
		return catalog.EncodeJSON(w, entries)
	case "yaml", "yml":
		return catalog.EncodeYAML(w, entries)
	case "csv":
		return catalog.EncodeCSV(w, entries)
	default:
		return fmt.Errorf("unknown export format %q (want json, yaml or csv)", format)
	}
}

// exportToFile writes entries to path, removing the file again if writing or
// closing it fails.
func exportToFile(path, format string, entries []catalog.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := writeExport(f, format, entries); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeExport(wc io.WriteCloser, format string, entries []catalog.Entry) error {
	if err := exportEntries(wc, format, entries); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing export: %w", err)
	}
	return nil
}
