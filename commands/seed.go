package commands

import (
	"property-service/config"
	"property-service/models"
	"property-service/scripts"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial manager and staff logins",
	Long:  "Creates the accounts named by SEED_MANAGER_EMAIL/PASSWORD and SEED_STAFF_EMAIL/PASSWORD if they do not exist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openAndMigrate()
		if err != nil {
			return err
		}
		created, err := scripts.SeedAccounts(db, []scripts.SeedAccount{
			{
				Email:     config.Config.SeedManagerEmail,
				Password:  config.Config.SeedManagerPassword,
				FirstName: "Property",
				LastName:  "Manager",
				Role:      models.ManagerRole,
			},
			{
				Email:     config.Config.SeedStaffEmail,
				Password:  config.Config.SeedStaffPassword,
				FirstName: "Property",
				LastName:  "Staff",
				Role:      models.StaffRole,
			},
		})
		if err != nil {
			return err
		}
		config.Config.Logger.Infof("seeded %d account(s)", created)
		return nil
	},
}
