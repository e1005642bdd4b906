// internal/cli/export_cmd.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/services"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export exhibits to an XLSX workbook",
		Long: `Write the catalog to an XLSX workbook, one row per exhibit.

Examples:
  museumctl export catalog.xlsx
  museumctl export published.xlsx --status published`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			filter := services.ExhibitFilter{}
			if status != "" {
				s := models.ExhibitStatus(status)
				if !s.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = &s
			}

			_, db, closeDB, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDB()

			out, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer out.Close()

			exportService := services.NewExportService(db, nil)
			count, err := exportService.ExportExhibits(out, filter)
			if err != nil {
				return err
			}

			fmt.Printf("%s Exported %d exhibits to %s\n", okMark, count, args[0])
			return nil
		},
	}

	cmd.Flags().String("status", "", "Only export exhibits with this status")

	return cmd
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Create exhibits from an XLSX workbook",
		Long: `Read exhibits from the first sheet of a workbook laid out like the export.
Rows whose inventory number already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetUint("actor")

			_, db, closeDB, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDB()

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			historyService := services.NewHistoryService(db)
			exhibitService := services.NewExhibitService(db, historyService, nil)
			result, err := services.NewExportService(db, exhibitService).ImportExhibits(in, actor)
			if err != nil {
				return err
			}

			fmt.Printf("%s Imported %d, skipped %d\n", okMark, result.Imported, result.Skipped)
			for _, message := range result.Errors {
				fmt.Printf("%s %s\n", warnMark, message)
			}
			return nil
		},
	}

	cmd.Flags().Uint("actor", 0, "Staff user id recorded as creator")

	return cmd
}
