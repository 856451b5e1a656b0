package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"romhack-catalog/db"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the catalog into the local SQLite database",
	Long: `Mirror the catalog into the local SQLite database under CATALOG_DATA_DIR.

Entries are matched by id. Changed entries are updated, entries missing
from the catalog are removed, and running sync twice changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, entries, err := bootstrap(flagConfigDir)
		if err != nil {
			return err
		}

		db.InitDatabase(cfg.DatabasePath)
		res, err := db.SyncEntries(db.DB, entries)
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d entries into %s: %d new, %d updated, %d unchanged, %d removed\n",
			len(entries), cfg.DatabasePath, res.Created, res.Updated, res.Unchanged, res.Removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
