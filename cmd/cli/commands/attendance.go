package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// CheckInCmd creates the checkIn command
func CheckInCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkIn <rsvp_id>",
		Short: "Record a confirmed volunteer's arrival",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsvp, err := services.RecordCheckIn(app.Ctx, app.Store, app.Logger, app.Actor, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s checked in at %s\n", rsvp.UserID, rsvp.CheckInAt.Format(time.Kitchen))
			return nil
		},
	}
}

// CheckOutCmd creates the checkOut command
func CheckOutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkOut <rsvp_id>",
		Short: "Record a checked-in volunteer's departure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsvp, err := services.RecordCheckOut(app.Ctx, app.Store, app.Logger, app.Actor, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s checked out at %s\n", rsvp.UserID, rsvp.CheckOutAt.Format(time.Kitchen))
			return nil
		},
	}
}

// MarkNoShowCmd creates the markNoShow command
func MarkNoShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "markNoShow <rsvp_id>",
		Short: "Mark a confirmed sign-up as a no-show after the shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsvp, err := services.MarkNoShow(app.Ctx, app.Store, app.Dispatcher, app.Logger, app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Sign-up %s is now %s\n", rsvp.ID, rsvp.Status)
			return nil
		},
	}
}
