package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/core/transition"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// CancelRSVP declines a sign-up. Only the owning volunteer or a coordinator
// may invoke it. DECLINED is terminal and the record is retained for audit.
func CancelRSVP(
	ctx context.Context,
	store shiftTxRunner,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
	userID string,
) (model.RSVP, error) {
	if userID == "" {
		userID = actor.UserID
	}
	logger.Debug("Starting cancelRSVP",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID))

	if userID != actor.UserID && !actor.Coordinator {
		return model.RSVP{}, fmt.Errorf("cancelling another volunteer's sign-up requires coordinator capability: %w", ErrForbidden)
	}

	var (
		declined model.RSVP
		noop     bool
	)

	err := withShiftTx(ctx, store, logger, shiftID, func(tx db.ShiftTx) error {
		noop = false

		rsvps, err := tx.RSVPs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list RSVPs for shift %s: %w", shiftID, err)
		}

		var target *model.RSVP
		var history *model.RSVP
		for i := range rsvps {
			r := rsvps[i]
			if r.UserID != userID {
				continue
			}
			if r.Active() {
				target = &r
				break
			}
			history = &r
		}

		if target == nil {
			if history != nil {
				// Already declined; cancelling again is a no-op
				declined = *history
				noop = true
				return nil
			}
			return fmt.Errorf("no sign-up for user %s on shift %s: %w", userID, shiftID, ErrNotFound)
		}

		if !transition.RSVPAllowed(target.Status, model.RSVPDeclined) {
			return fmt.Errorf("sign-up %s is %s and cannot be declined: %w",
				target.ID, target.Status, ErrNotAvailable)
		}

		target.Status = model.RSVPDeclined
		if err := tx.UpdateRSVP(ctx, *target); err != nil {
			return err
		}
		declined = *target
		return nil
	})
	if err != nil {
		return model.RSVP{}, err
	}

	if noop {
		logger.Debug("RSVP already declined",
			zap.String("rsvp_id", declined.ID),
			zap.String("shift_id", shiftID))
		return declined, nil
	}

	logger.Info("RSVP declined",
		zap.String("rsvp_id", declined.ID),
		zap.String("shift_id", shiftID))

	dispatcher.Dispatch(ctx, notify.Event{
		Type:    notify.EventRSVPDeclined,
		ShiftID: shiftID,
		RSVPID:  declined.ID,
		UserID:  declined.UserID,
	})

	return declined, nil
}
