package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// CreateShiftInput describes a new shift
type CreateShiftInput struct {
	ZoneID          string
	ShiftTypeID     string
	Date            string // 2006-01-02
	StartTime       string // 15:04
	EndTime         string // 15:04
	MinVolunteers   int
	IdealVolunteers int
	MaxVolunteers   int
	// Publish creates the shift directly in PUBLISHED rather than DRAFT
	Publish bool
}

// CreateShiftStore defines the database operations needed to create a shift
type CreateShiftStore interface {
	InsertShift(ctx context.Context, shift model.Shift) error
}

// CreateShift validates and records a new shift owned by the acting
// coordinator. The shift starts in DRAFT, or PUBLISHED when requested.
func CreateShift(
	ctx context.Context,
	store CreateShiftStore,
	catalog db.Catalog,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	settings model.Settings,
	input CreateShiftInput,
	now func() time.Time,
) (model.Shift, error) {
	logger.Debug("Starting createShift",
		zap.String("zone_id", input.ZoneID),
		zap.String("date", input.Date),
		zap.Bool("publish", input.Publish))

	if !actor.Coordinator {
		return model.Shift{}, fmt.Errorf("creating shifts requires coordinator capability: %w", ErrForbidden)
	}

	vErr := &ValidationError{}
	validateStaffing(input.MinVolunteers, input.IdealVolunteers, input.MaxVolunteers, vErr)
	validateWindow(input.Date, input.StartTime, input.EndTime, vErr)
	if err := validateCatalogRefs(ctx, catalog, input.ZoneID, input.ShiftTypeID, vErr); err != nil {
		return model.Shift{}, err
	}

	nowFn := clockOrNow(now)
	if !settings.AllowPastShifts && input.Date < nowFn().Format(model.DateFormat) {
		vErr.add("date", "must not be in the past")
	}

	if vErr.HasErrors() {
		return model.Shift{}, vErr
	}

	status := model.ShiftDraft
	if input.Publish {
		status = model.ShiftPublished
	}

	shift := model.Shift{
		ID:              uuid.NewString(),
		ZoneID:          input.ZoneID,
		ShiftTypeID:     input.ShiftTypeID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		MinVolunteers:   input.MinVolunteers,
		IdealVolunteers: input.IdealVolunteers,
		MaxVolunteers:   input.MaxVolunteers,
		Status:          status,
		CreatedBy:       actor.UserID,
	}

	if err := store.InsertShift(ctx, shift); err != nil {
		return model.Shift{}, fmt.Errorf("failed to insert shift: %w", err)
	}
	shift.Version = 1

	logger.Info("Shift created",
		zap.String("shift_id", shift.ID),
		zap.String("status", string(shift.Status)))

	if shift.Status == model.ShiftPublished {
		dispatcher.Dispatch(ctx, notify.Event{Type: notify.EventShiftPublished, ShiftID: shift.ID})
	}

	return shift, nil
}
