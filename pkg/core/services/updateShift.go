package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// ShiftPatch carries the fields a coordinator may edit. Nil pointers leave
// the current value untouched.
type ShiftPatch struct {
	ZoneID          *string
	ShiftTypeID     *string
	Date            *string
	StartTime       *string
	EndTime         *string
	MinVolunteers   *int
	IdealVolunteers *int
	MaxVolunteers   *int
}

// UpdateShiftStore defines the database operations needed to edit a shift
type UpdateShiftStore interface {
	GetShift(ctx context.Context, id string) (model.Shift, error)
	UpdateShift(ctx context.Context, shift model.Shift) error
}

// UpdateShift applies a patch to a shift and re-validates the merged result.
// Edits are frozen once the shift is cancelled or its date has passed.
func UpdateShift(
	ctx context.Context,
	store UpdateShiftStore,
	catalog db.Catalog,
	logger *zap.Logger,
	actor model.Actor,
	shiftID string,
	patch ShiftPatch,
	now func() time.Time,
) (model.Shift, error) {
	logger.Debug("Starting updateShift", zap.String("shift_id", shiftID))

	if !actor.Coordinator {
		return model.Shift{}, fmt.Errorf("editing shifts requires coordinator capability: %w", ErrForbidden)
	}

	nowFn := clockOrNow(now)

	attempt := func() (model.Shift, error) {
		shift, err := store.GetShift(ctx, shiftID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return model.Shift{}, fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
			}
			return model.Shift{}, fmt.Errorf("failed to get shift %s: %w", shiftID, err)
		}

		if shift.Status == model.ShiftCancelled {
			return model.Shift{}, fmt.Errorf("shift %s is cancelled: %w", shiftID, ErrNotAvailable)
		}
		if shift.DatePassed(nowFn()) {
			return model.Shift{}, fmt.Errorf("shift %s date has passed, edits are frozen: %w", shiftID, ErrNotAvailable)
		}

		merged := applyPatch(shift, patch)

		vErr := &ValidationError{}
		validateStaffing(merged.MinVolunteers, merged.IdealVolunteers, merged.MaxVolunteers, vErr)
		validateWindow(merged.Date, merged.StartTime, merged.EndTime, vErr)
		if patch.ZoneID != nil || patch.ShiftTypeID != nil {
			if err := validateCatalogRefs(ctx, catalog, merged.ZoneID, merged.ShiftTypeID, vErr); err != nil {
				return model.Shift{}, err
			}
		}
		if vErr.HasErrors() {
			return model.Shift{}, vErr
		}

		if err := store.UpdateShift(ctx, merged); err != nil {
			return model.Shift{}, err
		}
		merged.Version++
		return merged, nil
	}

	shift, err := attempt()
	if errors.Is(err, db.ErrWriteConflict) {
		logger.Debug("Retrying updateShift after write conflict", zap.String("shift_id", shiftID))
		shift, err = attempt()
	}
	if errors.Is(err, db.ErrWriteConflict) {
		return model.Shift{}, fmt.Errorf("shift %s lost two write races: %w", shiftID, ErrConflict)
	}
	if err != nil {
		return model.Shift{}, err
	}

	logger.Info("Shift updated", zap.String("shift_id", shiftID))
	return shift, nil
}

func applyPatch(shift model.Shift, patch ShiftPatch) model.Shift {
	if patch.ZoneID != nil {
		shift.ZoneID = *patch.ZoneID
	}
	if patch.ShiftTypeID != nil {
		shift.ShiftTypeID = *patch.ShiftTypeID
	}
	if patch.Date != nil {
		shift.Date = *patch.Date
	}
	if patch.StartTime != nil {
		shift.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		shift.EndTime = *patch.EndTime
	}
	if patch.MinVolunteers != nil {
		shift.MinVolunteers = *patch.MinVolunteers
	}
	if patch.IdealVolunteers != nil {
		shift.IdealVolunteers = *patch.IdealVolunteers
	}
	if patch.MaxVolunteers != nil {
		shift.MaxVolunteers = *patch.MaxVolunteers
	}
	return shift
}
