// cmd/museumctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajoker/museum-backend/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "museumctl",
		Short: "Operator tool for the museum catalog",
		Long: `museumctl manages the museum catalog database outside the HTTP server:
schema migrations, seed data, staff accounts, XLSX export/import and stats.

Configuration is read from the environment and an optional .env file, the
same way the server reads it.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.CreateStaffCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
