package commands

import (
	"fmt"
	"os"

	"property-service/config"
	"property-service/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Property management console API",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(reportCmd)
}

func Execute() {
	defer config.Config.Logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openAndMigrate() (*gorm.DB, error) {
	db, err := config.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}
	config.Config.Logger.Info("database connected")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("error while running migration: %w", err)
	}
	config.Config.Logger.Info("migration was successful")
	return db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := openAndMigrate()
		return err
	},
}
