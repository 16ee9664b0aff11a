package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(newLogger(cfg))
		return migrate(cfg)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
