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

// CancelShift transitions a shift to CANCELLED from any non-terminal status.
// Re-cancelling a cancelled shift succeeds as a no-op. Non-declined RSVPs
// keep their statuses as historical record; one cancellation event is emitted
// per non-declined RSVP after commit.
func CancelShift(
	ctx context.Context,
	store shiftTxRunner,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
	reason string,
) (model.Shift, error) {
	logger.Debug("Starting cancelShift",
		zap.String("shift_id", shiftID),
		zap.String("reason", reason))

	if !actor.Coordinator {
		return model.Shift{}, fmt.Errorf("cancelling shifts requires coordinator capability: %w", ErrForbidden)
	}

	var (
		cancelled model.Shift
		affected  []model.RSVP
		noop      bool
	)

	err := withShiftTx(ctx, store, logger, shiftID, func(tx db.ShiftTx) error {
		affected = nil
		noop = false

		shift, err := tx.Shift(ctx)
		if err != nil {
			return fmt.Errorf("failed to get shift %s: %w", shiftID, err)
		}

		if shift.Status == model.ShiftCancelled {
			// Idempotent: re-cancelling succeeds without a second round of events
			cancelled = shift
			noop = true
			return nil
		}
		if !transition.ShiftAllowed(shift.Status, model.ShiftCancelled) {
			return fmt.Errorf("shift %s cannot be cancelled from %s: %w",
				shiftID, shift.Status, ErrNotAvailable)
		}

		rsvps, err := tx.RSVPs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list RSVPs for shift %s: %w", shiftID, err)
		}
		for _, r := range rsvps {
			if r.Active() {
				affected = append(affected, r)
			}
		}

		shift.Status = model.ShiftCancelled
		shift.CancelReason = reason
		if err := tx.UpdateShift(ctx, shift); err != nil {
			return err
		}
		shift.Version++
		cancelled = shift
		return nil
	})
	if err != nil {
		return model.Shift{}, err
	}

	if noop {
		logger.Debug("Shift already cancelled", zap.String("shift_id", shiftID))
		return cancelled, nil
	}

	logger.Info("Shift cancelled",
		zap.String("shift_id", shiftID),
		zap.Int("affected_rsvps", len(affected)))

	for _, r := range affected {
		dispatcher.Dispatch(ctx, notify.Event{
			Type:    notify.EventShiftCancelled,
			ShiftID: shiftID,
			RSVPID:  r.ID,
			UserID:  r.UserID,
		})
	}

	return cancelled, nil
}
