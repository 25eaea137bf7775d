package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harbourwatch/scheduler/pkg/core/services"
)

// PublishShiftCmd creates the publishShift command
func PublishShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishShift <shift_id>",
		Short: "Publish a draft shift, opening it for sign-ups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.PublishShift(app.Ctx, app.Store, app.Dispatcher, app.Logger, app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Shift %s is now %s\n", shift.ID, shift.Status)
			return nil
		},
	}
}

// StartShiftCmd creates the startShift command
func StartShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "startShift <shift_id>",
		Short: "Mark a published shift as in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.StartShift(app.Ctx, app.Store, app.Dispatcher, app.Logger, app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Shift %s is now %s\n", shift.ID, shift.Status)
			return nil
		},
	}
}

// CompleteShiftCmd creates the completeShift command
func CompleteShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "completeShift <shift_id>",
		Short: "Mark an in-progress shift as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.CompleteShift(app.Ctx, app.Store, app.Dispatcher, app.Logger, app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Shift %s is now %s\n", shift.ID, shift.Status)
			return nil
		},
	}
}

// CancelShiftCmd creates the cancelShift command
func CancelShiftCmd(app *AppContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancelShift <shift_id>",
		Short: "Cancel a shift, notifying its volunteers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.CancelShift(app.Ctx, app.Store, app.Dispatcher, app.Logger,
				app.Actor, args[0], reason)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Shift %s cancelled\n", shift.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")
	return cmd
}
