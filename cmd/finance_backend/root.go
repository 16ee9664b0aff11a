package main

import (
	"github.com/SscSPs/facility_finance_app/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	flagDBDriver   string
	flagSQLitePath string
)

var rootCmd = &cobra.Command{
	Use:           "finance_backend",
	Short:         "Cashbook ledger service for health-facility accounts",
	Long:          "Records cashbook entries per account, keeps their running balances consistent and audits them, backed by PostgreSQL or SQLite.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBDriver, "db-driver", "", "Override DB_DRIVER (postgres or sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagSQLitePath, "sqlite-path", "", "Override SQLITE_PATH")
}

func execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the environment configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db-driver") {
		cfg.DBDriver = flagDBDriver
	}
	if cmd.Flags().Changed("sqlite-path") {
		cfg.SQLitePath = flagSQLitePath
	}
	return cfg, nil
}
