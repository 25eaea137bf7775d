package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/capacity"
	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// CreateRSVPInput describes a new sign-up request
type CreateRSVPInput struct {
	ShiftID string
	// UserID is the volunteer signing up. Empty means the actor themselves;
	// a different user requires coordinator capability.
	UserID          string
	QualifiedRoleID string
	ZoneLead        bool
}

// CreateRSVP admits a sign-up against a published shift. The capacity check
// and the insert run inside the same shift-scoped transaction; a stale read
// followed by an insert would over-book under concurrent sign-ups.
func CreateRSVP(
	ctx context.Context,
	store shiftTxRunner,
	catalog db.Catalog,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	settings model.Settings,
	input CreateRSVPInput,
	now func() time.Time,
) (model.RSVP, error) {
	logger.Debug("Starting createRSVP",
		zap.String("shift_id", input.ShiftID),
		zap.String("user_id", input.UserID),
		zap.Bool("zone_lead", input.ZoneLead))

	userID := input.UserID
	if userID == "" {
		userID = actor.UserID
	}
	onBehalf := userID != actor.UserID
	if onBehalf && !actor.Coordinator {
		return model.RSVP{}, fmt.Errorf("signing up another volunteer requires coordinator capability: %w", ErrForbidden)
	}
	if settings.SchedulingMode == model.SchedulingManaged && !actor.Coordinator {
		return model.RSVP{}, fmt.Errorf("sign-ups are coordinator-managed for this organisation: %w", ErrForbidden)
	}

	if input.QualifiedRoleID != "" {
		if _, err := catalog.GetQualifiedRole(ctx, input.QualifiedRoleID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				vErr := &ValidationError{}
				vErr.add("qualifiedRoleId", "unknown qualified role")
				return model.RSVP{}, vErr
			}
			return model.RSVP{}, fmt.Errorf("failed to look up qualified role %s: %w", input.QualifiedRoleID, err)
		}
	}

	roleCounts, err := catalog.RoleCounting(ctx)
	if err != nil {
		return model.RSVP{}, fmt.Errorf("failed to read role counting snapshot: %w", err)
	}
	counting := capacity.Snapshot(roleCounts)

	status := model.RSVPPending
	if settings.AutoConfirmRSVP || (onBehalf && actor.Coordinator) {
		status = model.RSVPConfirmed
	}

	nowFn := clockOrNow(now)

	var created model.RSVP
	err = withShiftTx(ctx, store, logger, input.ShiftID, func(tx db.ShiftTx) error {
		shift, err := tx.Shift(ctx)
		if err != nil {
			return fmt.Errorf("failed to get shift %s: %w", input.ShiftID, err)
		}

		if shift.Status != model.ShiftPublished {
			return fmt.Errorf("shift %s is %s, sign-ups require PUBLISHED: %w",
				shift.ID, shift.Status, ErrNotAvailable)
		}
		if shift.DatePassed(nowFn()) {
			return fmt.Errorf("shift %s date has passed: %w", shift.ID, ErrNotAvailable)
		}

		rsvps, err := tx.RSVPs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list RSVPs for shift %s: %w", shift.ID, err)
		}

		for _, r := range rsvps {
			if r.UserID == userID && r.Active() {
				return fmt.Errorf("user %s already has an active sign-up for shift %s: %w",
					userID, shift.ID, ErrConflict)
			}
		}

		counts := capacity.Compute(shift, rsvps, counting)
		if counts.SpotsLeft == 0 {
			return fmt.Errorf("shift %s has no remaining capacity: %w", shift.ID, ErrFull)
		}

		if input.ZoneLead {
			for _, r := range rsvps {
				if r.Active() && r.IsZoneLead {
					return fmt.Errorf("shift %s already has a zone lead: %w", shift.ID, ErrConflict)
				}
			}
		}

		created = model.RSVP{
			ID:              uuid.NewString(),
			ShiftID:         shift.ID,
			UserID:          userID,
			QualifiedRoleID: input.QualifiedRoleID,
			IsZoneLead:      input.ZoneLead,
			Status:          status,
		}
		return tx.InsertRSVP(ctx, created)
	})
	if err != nil {
		return model.RSVP{}, err
	}

	logger.Info("RSVP created",
		zap.String("rsvp_id", created.ID),
		zap.String("shift_id", created.ShiftID),
		zap.String("status", string(created.Status)))

	dispatcher.Dispatch(ctx, notify.Event{
		Type:    notify.EventRSVPCreated,
		ShiftID: created.ShiftID,
		RSVPID:  created.ID,
		UserID:  created.UserID,
	})

	return created, nil
}
