package cmd

import (
	"github.com/beratcankara/inoflow/internal/config"
	"github.com/beratcankara/inoflow/internal/database"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run migrations and ensure the bootstrap admin exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		database.Init(cfg.DBDSN)
		database.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
