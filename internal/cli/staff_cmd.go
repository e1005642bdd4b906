// internal/cli/staff_cmd.go
package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

// CreateStaffCmd returns the create-staff command
func CreateStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-staff <username>",
		Short: "Create a staff account that can edit the catalog",
		Long: `Create an active staff account.

When --password is omitted a random password is generated and printed once.

Examples:
  museumctl create-staff curator --email curator@museum.local
  museumctl create-staff archivist --password 'Str0ng!Pass'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			fullName, _ := cmd.Flags().GetString("full-name")
			password, _ := cmd.Flags().GetString("password")

			generated := false
			if password == "" {
				random, err := utils.GenerateRandomString(16)
				if err != nil {
					return err
				}
				// Satisfies the strong_password rule
				password = random + "!aA1"
				generated = true
			}

			cfg, db, closeDB, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := services.NewAuthService(db, cfg).CreateStaff(&services.CreateStaffRequest{
				Username: args[0],
				Email:    email,
				FullName: fullName,
				Password: password,
			})
			if err != nil {
				for _, ve := range utils.GetValidationErrors(err) {
					fmt.Printf("%s %s: %s\n", warnMark, ve.Field, ve.Message)
				}
				if errors.Is(err, services.ErrConstraintViolation) {
					return fmt.Errorf("username %q already exists", args[0])
				}
				return err
			}

			fmt.Printf("%s Staff account %s created (id %d)\n", okMark, color.New(color.Bold).Sprint(user.Username), user.ID)
			if generated {
				fmt.Printf("  Password: %s\n", color.New(color.FgHiYellow).Sprint(password))
			}
			return nil
		},
	}

	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("full-name", "", "Display name")
	cmd.Flags().String("password", "", "Password (generated when empty)")

	return cmd
}
