// internal/cli/stats_cmd.go
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/services"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals by status and category",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, closeDB, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDB()

			catalogService := services.NewCatalogService(db, nil)
			exhibitService := services.NewExhibitService(db, services.NewHistoryService(db), nil)

			stats, err := catalogService.Stats()
			if err != nil {
				return err
			}
			byStatus, err := exhibitService.StatusCounts()
			if err != nil {
				return err
			}
			categories, err := catalogService.CategoryCounts()
			if err != nil {
				return err
			}

			fmt.Printf("Published exhibits: %d (featured %d)\n\n", stats.TotalPublished, stats.Featured)

			fmt.Println("By status:")
			for _, status := range []models.ExhibitStatus{
				models.ExhibitStatusDraft,
				models.ExhibitStatusPublished,
				models.ExhibitStatusRepair,
				models.ExhibitStatusArchived,
			} {
				fmt.Printf("  %-22s %d\n", statusBadge(status), byStatus[status])
			}
			fmt.Println()

			fmt.Println("Published by category:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, category := range categories {
				fmt.Fprintf(w, "  %s\t%d\n", category.Name, category.ExhibitCount)
			}
			return w.Flush()
		},
	}
}

func statusBadge(status models.ExhibitStatus) string {
	switch status {
	case models.ExhibitStatusDraft:
		return color.New(color.FgHiBlack).Sprint("[draft]")
	case models.ExhibitStatusPublished:
		return color.New(color.FgHiGreen).Sprint("[published]")
	case models.ExhibitStatusRepair:
		return color.New(color.FgYellow).Sprint("[repair]")
	case models.ExhibitStatusArchived:
		return color.New(color.FgRed).Sprint("[archived]")
	default:
		return string(status)
	}
}
