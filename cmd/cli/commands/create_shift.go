package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// CreateShiftCmd creates the createShift command
func CreateShiftCmd(app *AppContext) *cobra.Command {
	var input services.CreateShiftInput

	cmd := &cobra.Command{
		Use:   "createShift <zone_id> <shift_type_id> <date>",
		Short: "Create a shift with staffing bounds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.ZoneID = args[0]
			input.ShiftTypeID = args[1]
			input.Date = args[2]

			shift, err := services.CreateShift(app.Ctx, app.Store, app.Catalog, app.Dispatcher,
				app.Logger, app.Actor, app.Settings(), input, nil)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift created!\n\n")
			fmt.Printf("Shift ID: %s\n", shift.ID)
			fmt.Printf("Date:     %s %s-%s\n", shift.Date, shift.StartTime, shift.EndTime)
			fmt.Printf("Staffing: min %d / ideal %d / max %d\n",
				shift.MinVolunteers, shift.IdealVolunteers, shift.MaxVolunteers)
			fmt.Printf("Status:   %s\n\n", shift.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.StartTime, "start", "09:00", "Shift start time (15:04)")
	cmd.Flags().StringVar(&input.EndTime, "end", "17:00", "Shift end time (15:04)")
	cmd.Flags().IntVar(&input.MinVolunteers, "min", 1, "Minimum volunteers")
	cmd.Flags().IntVar(&input.IdealVolunteers, "ideal", 2, "Ideal volunteers")
	cmd.Flags().IntVar(&input.MaxVolunteers, "max", 4, "Maximum volunteers")
	cmd.Flags().BoolVar(&input.Publish, "publish", false, "Create directly in PUBLISHED")

	return cmd
}
