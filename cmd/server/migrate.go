package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbInstance, err := openDatabase()
		if err != nil {
			return err
		}
		defer dbInstance.Close()

		common.GetLogger().Info("Schema is up to date", zap.String("database_type", cfg.Database.Type))
		return nil
	},
}

// openDatabase opens and migrates the configured database.
func openDatabase() (*db.DB, error) {
	dialector, err := db.UseDialector(cfg.Database.Type, cfg.Database.Path, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	dbInstance, err := db.Open(dialector)
	if err != nil {
		return nil, err
	}

	if err := dbInstance.SetPool(cfg.Database.PoolOptions()); err != nil {
		_ = dbInstance.Close()
		return nil, err
	}
	return dbInstance, nil
}
