package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/core/services"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	var (
		zoneID    string
		shiftType string
		statuses  []string
		dateFrom  string
		dateTo    string
	)

	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List shifts, optionally filtered by zone, type, status or date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.ShiftFilter{
				ZoneID:      zoneID,
				ShiftTypeID: shiftType,
				DateFrom:    dateFrom,
				DateTo:      dateTo,
			}
			for _, s := range statuses {
				filter.Statuses = append(filter.Statuses, model.ShiftStatus(s))
			}

			shifts, err := services.ListShifts(app.Ctx, app.Store, app.Logger, filter)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d shifts:\n\n", len(shifts))
			for _, s := range shifts {
				fmt.Printf("- %s  %s %s-%s  zone=%s  %d/%d/%d  %s\n",
					s.ID, s.Date, s.StartTime, s.EndTime, s.ZoneID,
					s.MinVolunteers, s.IdealVolunteers, s.MaxVolunteers, s.Status)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&zoneID, "zone", "", "Filter by zone id")
	cmd.Flags().StringVar(&shiftType, "type", "", "Filter by shift type id")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&dateFrom, "from", "", "Earliest date (2006-01-02)")
	cmd.Flags().StringVar(&dateTo, "to", "", "Latest date (2006-01-02)")

	return cmd
}

// CountsCmd creates the counts command
func CountsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "counts <shift_id>",
		Short: "Show a shift's live staffing counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := services.ComputeCounts(app.Ctx, app.Store, app.Catalog, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nConfirmed:          %d\n", counts.Confirmed)
			fmt.Printf("Pending:            %d\n", counts.Pending)
			fmt.Printf("Counting confirmed: %d\n", counts.CountingConfirmed)
			fmt.Printf("Spots left:         %d\n", counts.SpotsLeft)
			fmt.Printf("Minimum met:        %v\n\n", counts.MinimumMet)
			return nil
		},
	}
}
