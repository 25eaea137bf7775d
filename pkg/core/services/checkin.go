package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/core/transition"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// RecordCheckIn stamps a confirmed sign-up's arrival time. A second call
// with the timestamp already set is a no-op.
func RecordCheckIn(
	ctx context.Context,
	store SetZoneLeadStore,
	logger *zap.Logger,
	actor model.Actor,
	rsvpID string,
	at time.Time,
) (model.RSVP, error) {
	return stampRSVP(ctx, store, logger, actor, rsvpID, func(r *model.RSVP) error {
		if r.Status != model.RSVPConfirmed {
			return fmt.Errorf("sign-up %s is %s, check-in requires CONFIRMED: %w",
				r.ID, r.Status, ErrNotAvailable)
		}
		if r.CheckInAt == nil {
			t := at
			r.CheckInAt = &t
		}
		return nil
	})
}

// RecordCheckOut stamps a checked-in sign-up's departure time
func RecordCheckOut(
	ctx context.Context,
	store SetZoneLeadStore,
	logger *zap.Logger,
	actor model.Actor,
	rsvpID string,
	at time.Time,
) (model.RSVP, error) {
	return stampRSVP(ctx, store, logger, actor, rsvpID, func(r *model.RSVP) error {
		if r.CheckInAt == nil {
			return fmt.Errorf("sign-up %s has no check-in to close: %w", r.ID, ErrNotAvailable)
		}
		if r.CheckOutAt == nil {
			t := at
			r.CheckOutAt = &t
		}
		return nil
	})
}

// MarkNoShow applies the CONFIRMED -> NO_SHOW edge. It is invoked by the
// post-shift reconciliation collaborator, not by the engine itself.
func MarkNoShow(
	ctx context.Context,
	store SetZoneLeadStore,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	rsvpID string,
) (model.RSVP, error) {
	rsvp, err := stampRSVP(ctx, store, logger, actor, rsvpID, func(r *model.RSVP) error {
		if !transition.RSVPAllowed(r.Status, model.RSVPNoShow) {
			return fmt.Errorf("sign-up %s is %s and cannot be marked no-show: %w",
				r.ID, r.Status, ErrNotAvailable)
		}
		r.Status = model.RSVPNoShow
		return nil
	})
	if err != nil {
		return model.RSVP{}, err
	}

	dispatcher.Dispatch(ctx, notify.Event{
		Type:    notify.EventRSVPNoShow,
		ShiftID: rsvp.ShiftID,
		RSVPID:  rsvp.ID,
		UserID:  rsvp.UserID,
	})
	return rsvp, nil
}

// stampRSVP applies mutate to one sign-up inside its shift transaction
func stampRSVP(
	ctx context.Context,
	store SetZoneLeadStore,
	logger *zap.Logger,
	actor model.Actor,
	rsvpID string,
	mutate func(r *model.RSVP) error,
) (model.RSVP, error) {
	if !actor.Coordinator {
		return model.RSVP{}, fmt.Errorf("attendance records require coordinator capability: %w", ErrForbidden)
	}

	seed, err := store.GetRSVP(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return model.RSVP{}, fmt.Errorf("sign-up %s: %w", rsvpID, ErrNotFound)
		}
		return model.RSVP{}, fmt.Errorf("failed to get sign-up %s: %w", rsvpID, err)
	}

	var updated model.RSVP
	err = withShiftTx(ctx, store, logger, seed.ShiftID, func(tx db.ShiftTx) error {
		rsvps, err := tx.RSVPs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list RSVPs for shift %s: %w", seed.ShiftID, err)
		}
		for _, r := range rsvps {
			if r.ID != rsvpID {
				continue
			}
			before := r
			if err := mutate(&r); err != nil {
				return err
			}
			if r != before {
				if err := tx.UpdateRSVP(ctx, r); err != nil {
					return err
				}
			}
			updated = r
			return nil
		}
		return fmt.Errorf("sign-up %s: %w", rsvpID, ErrNotFound)
	})
	if err != nil {
		return model.RSVP{}, err
	}

	logger.Info("Attendance record updated",
		zap.String("rsvp_id", updated.ID),
		zap.String("shift_id", updated.ShiftID),
		zap.String("status", string(updated.Status)))
	return updated, nil
}
