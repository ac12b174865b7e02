package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/config"
	"github.com/tteodorogustavo/athlos/internal/database"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "athlos-api",
	Short:         "Athlos REST API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		utils.Log.SetLevel(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		utils.Log.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.Log.Error(err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.AddCommand(serveCmd, migrateCmd, importCmd, createUserCmd)
}

// openDB connects with the configured settings and, when migrate is set,
// brings the schema up to date.
func openDB(ctx context.Context, migrate bool) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.Options{SQLLog: cfg.SQLLog})
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
