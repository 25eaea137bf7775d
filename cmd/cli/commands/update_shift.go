package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// UpdateShiftCmd creates the updateShift command
func UpdateShiftCmd(app *AppContext) *cobra.Command {
	var (
		zone      string
		shiftType string
		date      string
		start     string
		end       string
		min       int
		ideal     int
		max       int
	)

	cmd := &cobra.Command{
		Use:   "updateShift <shift_id>",
		Short: "Edit a shift; only the flags you pass change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch services.ShiftPatch
			if cmd.Flags().Changed("zone") {
				patch.ZoneID = &zone
			}
			if cmd.Flags().Changed("type") {
				patch.ShiftTypeID = &shiftType
			}
			if cmd.Flags().Changed("date") {
				patch.Date = &date
			}
			if cmd.Flags().Changed("start") {
				patch.StartTime = &start
			}
			if cmd.Flags().Changed("end") {
				patch.EndTime = &end
			}
			if cmd.Flags().Changed("min") {
				patch.MinVolunteers = &min
			}
			if cmd.Flags().Changed("ideal") {
				patch.IdealVolunteers = &ideal
			}
			if cmd.Flags().Changed("max") {
				patch.MaxVolunteers = &max
			}

			shift, err := services.UpdateShift(app.Ctx, app.Store, app.Catalog, app.Logger,
				app.Actor, args[0], patch, nil)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Shift %s updated: %s %s-%s, min %d / ideal %d / max %d\n",
				shift.ID, shift.Date, shift.StartTime, shift.EndTime,
				shift.MinVolunteers, shift.IdealVolunteers, shift.MaxVolunteers)
			return nil
		},
	}

	cmd.Flags().StringVar(&zone, "zone", "", "New zone id")
	cmd.Flags().StringVar(&shiftType, "type", "", "New shift type id")
	cmd.Flags().StringVar(&date, "date", "", "New date (2006-01-02)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (15:04)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (15:04)")
	cmd.Flags().IntVar(&min, "min", 0, "New minimum volunteers")
	cmd.Flags().IntVar(&ideal, "ideal", 0, "New ideal volunteers")
	cmd.Flags().IntVar(&max, "max", 0, "New maximum volunteers")

	return cmd
}
