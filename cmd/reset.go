package cmd

import (
	"github.com/spf13/cobra"

	"dashboard/db"
	"dashboard/logger"
)

var resetCmd = cobra.Command{
	Use:   "reset",
	Short: "Drop all cache tables",
	Run: func(cmd *cobra.Command, args []string) {
		store := db.NewClickhouse()
		defer store.Close()

		logger.GlobalLogger.Info("Dropping cache tables...")
		if err := store.DropTables(); err != nil {
			logger.GlobalLogger.Error("Failed to drop tables", "err", err)
		}
		logger.GlobalLogger.Info("Done.")
	},
}

func init() {
	RootCmd.AddCommand(&resetCmd)
}
