package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/core/transition"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// PublishShift moves a DRAFT shift to PUBLISHED, opening it for sign-ups.
// Any other source status fails with ErrNotAvailable.
func PublishShift(
	ctx context.Context,
	store UpdateShiftStore,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
) (model.Shift, error) {
	shift, err := advanceShift(ctx, store, logger, actor, shiftID, model.ShiftPublished)
	if err != nil {
		return model.Shift{}, err
	}
	dispatcher.Dispatch(ctx, notify.Event{Type: notify.EventShiftPublished, ShiftID: shift.ID})
	return shift, nil
}

// StartShift moves a PUBLISHED shift to IN_PROGRESS at shift start
func StartShift(
	ctx context.Context,
	store UpdateShiftStore,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
) (model.Shift, error) {
	shift, err := advanceShift(ctx, store, logger, actor, shiftID, model.ShiftInProgress)
	if err != nil {
		return model.Shift{}, err
	}
	dispatcher.Dispatch(ctx, notify.Event{Type: notify.EventShiftStarted, ShiftID: shift.ID})
	return shift, nil
}

// CompleteShift moves an IN_PROGRESS shift to its terminal COMPLETED status
func CompleteShift(
	ctx context.Context,
	store UpdateShiftStore,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
) (model.Shift, error) {
	shift, err := advanceShift(ctx, store, logger, actor, shiftID, model.ShiftCompleted)
	if err != nil {
		return model.Shift{}, err
	}
	dispatcher.Dispatch(ctx, notify.Event{Type: notify.EventShiftCompleted, ShiftID: shift.ID})
	return shift, nil
}

// advanceShift applies a forward edge of the shift machine with the standard
// read-validate-CAS loop, retrying the version race once.
func advanceShift(
	ctx context.Context,
	store UpdateShiftStore,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
	to model.ShiftStatus,
) (model.Shift, error) {
	logger.Debug("Advancing shift status",
		zap.String("shift_id", shiftID),
		zap.String("to", string(to)))

	if !actor.Coordinator {
		return model.Shift{}, fmt.Errorf("shift status changes require coordinator capability: %w", ErrForbidden)
	}

	attempt := func() (model.Shift, error) {
		shift, err := store.GetShift(ctx, shiftID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return model.Shift{}, fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
			}
			return model.Shift{}, fmt.Errorf("failed to get shift %s: %w", shiftID, err)
		}

		if !transition.ShiftAllowed(shift.Status, to) {
			return model.Shift{}, fmt.Errorf("shift %s cannot move %s -> %s: %w",
				shiftID, shift.Status, to, ErrNotAvailable)
		}

		shift.Status = to
		if err := store.UpdateShift(ctx, shift); err != nil {
			return model.Shift{}, err
		}
		shift.Version++
		return shift, nil
	}

	shift, err := attempt()
	if errors.Is(err, db.ErrWriteConflict) {
		logger.Debug("Retrying shift status change after write conflict", zap.String("shift_id", shiftID))
		shift, err = attempt()
	}
	if errors.Is(err, db.ErrWriteConflict) {
		return model.Shift{}, fmt.Errorf("shift %s lost two write races: %w", shiftID, ErrConflict)
	}
	if err != nil {
		return model.Shift{}, err
	}

	logger.Info("Shift status changed",
		zap.String("shift_id", shiftID),
		zap.String("status", string(to)))
	return shift, nil
}
