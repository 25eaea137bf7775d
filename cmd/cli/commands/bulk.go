package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// BulkCmd creates the bulk command
func BulkCmd(app *AppContext) *cobra.Command {
	var (
		reason string
		min    int
		max    int
		ideal  int
	)

	cmd := &cobra.Command{
		Use:   "bulk <cancel|publish|confirmPending|fieldEdit> <shift_id>...",
		Short: "Apply one operation across many shifts, collecting per-item outcomes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := services.BulkOp(args[0])
			ids := args[1:]

			bulkArgs := services.BulkArgs{Reason: reason}
			if op == services.BulkFieldEdit {
				if cmd.Flags().Changed("min") {
					bulkArgs.Patch.MinVolunteers = &min
				}
				if cmd.Flags().Changed("ideal") {
					bulkArgs.Patch.IdealVolunteers = &ideal
				}
				if cmd.Flags().Changed("max") {
					bulkArgs.Patch.MaxVolunteers = &max
				}
			}

			result, err := services.BulkEditShifts(app.Ctx, app.Store, app.Catalog, app.Dispatcher,
				app.Logger, app.Actor, op, ids, bulkArgs, nil)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %d succeeded\n", len(result.Succeeded))
			for _, f := range result.Failed {
				fmt.Printf("✗ %s: %s\n", f.ID, f.Reason)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason (cancel)")
	cmd.Flags().IntVar(&min, "min", 0, "New minimum volunteers (fieldEdit)")
	cmd.Flags().IntVar(&ideal, "ideal", 0, "New ideal volunteers (fieldEdit)")
	cmd.Flags().IntVar(&max, "max", 0, "New maximum volunteers (fieldEdit)")

	return cmd
}
