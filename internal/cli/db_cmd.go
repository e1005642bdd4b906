// internal/cli/db_cmd.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajoker/museum-backend/internal/database"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, closeDB, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := database.RunMigrations(db); err != nil {
				return err
			}

			fmt.Printf("%s Schema is up to date\n", okMark)
			return nil
		},
	}
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first staff account and starter categories",
		Long: `Seed a fresh database. The staff account is only created when no staff
account exists yet; categories are only created when missing.

Examples:
  museumctl seed --admin-password 's3cret!Pass'
  MUSEUM_ADMIN_PASSWORD='s3cret!Pass' museumctl seed --admin-username curator`,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("admin-username")
			email, _ := cmd.Flags().GetString("admin-email")
			password, _ := cmd.Flags().GetString("admin-password")
			if password == "" {
				password = os.Getenv("MUSEUM_ADMIN_PASSWORD")
			}

			_, db, closeDB, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := database.RunMigrations(db); err != nil {
				return err
			}

			err = database.SeedInitialData(db, database.SeedOptions{
				AdminUsername: username,
				AdminPassword: password,
				AdminEmail:    email,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s Seed data in place\n", okMark)
			return nil
		},
	}

	cmd.Flags().String("admin-username", "admin", "Username of the first staff account")
	cmd.Flags().String("admin-email", "", "Email of the first staff account")
	cmd.Flags().String("admin-password", "", "Password of the first staff account (or MUSEUM_ADMIN_PASSWORD)")

	return cmd
}
