package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// CreateSeriesCmd creates the createSeries command
func CreateSeriesCmd(app *AppContext) *cobra.Command {
	var input services.CreateShiftSeriesInput

	cmd := &cobra.Command{
		Use:   "createSeries <zone_id> <shift_type_id> <rrule>",
		Short: "Create a recurring run of shifts from an RFC 5545 rule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Template.ZoneID = args[0]
			input.Template.ShiftTypeID = args[1]
			input.RRule = args[2]

			result, err := services.CreateShiftSeries(app.Ctx, app.Store, app.Catalog,
				app.Dispatcher, app.Logger, app.Actor, app.Settings(), input, nil)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Series created: %d shifts\n\n", len(result.Created))
			for _, shift := range result.Created {
				fmt.Printf("  %s  %s %s-%s  (%s)\n",
					shift.ID, shift.Date, shift.StartTime, shift.EndTime, shift.Status)
			}
			if len(result.Failed) > 0 {
				fmt.Printf("\n%d dates failed:\n", len(result.Failed))
				for _, f := range result.Failed {
					fmt.Printf("  ✗ %s: %s\n", f.ID, f.Reason)
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Template.StartTime, "start", "09:00", "Shift start time (15:04)")
	cmd.Flags().StringVar(&input.Template.EndTime, "end", "17:00", "Shift end time (15:04)")
	cmd.Flags().IntVar(&input.Template.MinVolunteers, "min", 1, "Minimum volunteers")
	cmd.Flags().IntVar(&input.Template.IdealVolunteers, "ideal", 2, "Ideal volunteers")
	cmd.Flags().IntVar(&input.Template.MaxVolunteers, "max", 4, "Maximum volunteers")
	cmd.Flags().BoolVar(&input.Template.Publish, "publish", false, "Create directly in PUBLISHED")

	return cmd
}
