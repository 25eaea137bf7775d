package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// SignUpCmd creates the signUp command
func SignUpCmd(app *AppContext) *cobra.Command {
	var input services.CreateRSVPInput

	cmd := &cobra.Command{
		Use:   "signUp <shift_id>",
		Short: "Sign a volunteer up for a published shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.ShiftID = args[0]

			rsvp, err := services.CreateRSVP(app.Ctx, app.Store, app.Catalog, app.Dispatcher,
				app.Logger, app.Actor, app.Settings(), input, nil)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Signed up!\n\n")
			fmt.Printf("RSVP ID: %s\n", rsvp.ID)
			fmt.Printf("Status:  %s\n", rsvp.Status)
			if rsvp.IsZoneLead {
				fmt.Printf("Zone lead: yes\n")
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&input.UserID, "for", "", "Volunteer id (coordinators only; defaults to yourself)")
	cmd.Flags().StringVar(&input.QualifiedRoleID, "role", "", "Qualified role id")
	cmd.Flags().BoolVar(&input.ZoneLead, "zone-lead", false, "Request the zone lead flag")

	return cmd
}

// CancelSignUpCmd creates the cancelSignUp command
func CancelSignUpCmd(app *AppContext) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "cancelSignUp <shift_id>",
		Short: "Decline a sign-up (self-service, or any volunteer for coordinators)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsvp, err := services.CancelRSVP(app.Ctx, app.Store, app.Dispatcher, app.Logger,
				app.Actor, args[0], userID)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Sign-up %s is now %s\n", rsvp.ID, rsvp.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "for", "", "Volunteer id (coordinators only; defaults to yourself)")
	return cmd
}

// ConfirmCmd creates the confirm command
func ConfirmCmd(app *AppContext) *cobra.Command {
	var (
		ids     []string
		shiftID string
	)

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm pending sign-ups by id or for a whole shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ConfirmRSVPs(app.Ctx, app.Store, app.Dispatcher, app.Logger,
				app.Actor, ids, shiftID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Confirmed %d sign-ups\n", result.Confirmed)
			if len(result.AlreadyConfirmed) > 0 {
				fmt.Printf("Already confirmed: %d\n", len(result.AlreadyConfirmed))
			}
			for _, s := range result.Skipped {
				fmt.Printf("Skipped %s (%s)\n", s.ID, s.Status)
			}
			for _, id := range result.NotFound {
				fmt.Printf("Not found: %s\n", id)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "id", nil, "RSVP id (repeatable)")
	cmd.Flags().StringVar(&shiftID, "shift", "", "Confirm every pending sign-up of this shift")
	cmd.MarkFlagsMutuallyExclusive("id", "shift")
	return cmd
}

// SetZoneLeadCmd creates the setZoneLead command
func SetZoneLeadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setZoneLead <rsvp_id>",
		Short: "Make a sign-up the shift's zone lead, demoting any previous holder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsvp, err := services.SetZoneLead(app.Ctx, app.Store, app.Dispatcher, app.Logger,
				app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s now leads zone coverage for shift %s\n", rsvp.UserID, rsvp.ShiftID)
			return nil
		},
	}
}
