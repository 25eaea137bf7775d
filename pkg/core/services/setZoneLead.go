package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// SetZoneLeadStore defines the database operations needed to move the
// zone-lead flag.
type SetZoneLeadStore interface {
	GetRSVP(ctx context.Context, id string) (model.RSVP, error)
	InShiftTx(ctx context.Context, shiftID string, fn func(tx db.ShiftTx) error) error
}

// SetZoneLead makes the target sign-up the shift's zone lead, demoting any
// previous holder inside the same transaction. The per-shift uniqueness
// invariant never observably breaks, even to a concurrent reader.
func SetZoneLead(
	ctx context.Context,
	store SetZoneLeadStore,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	rsvpID string,
) (model.RSVP, error) {
	logger.Debug("Starting setZoneLead", zap.String("rsvp_id", rsvpID))

	if !actor.Coordinator {
		return model.RSVP{}, fmt.Errorf("assigning zone leads requires coordinator capability: %w", ErrForbidden)
	}

	seed, err := store.GetRSVP(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return model.RSVP{}, fmt.Errorf("sign-up %s: %w", rsvpID, ErrNotFound)
		}
		return model.RSVP{}, fmt.Errorf("failed to get sign-up %s: %w", rsvpID, err)
	}

	var promoted model.RSVP
	err = withShiftTx(ctx, store, logger, seed.ShiftID, func(tx db.ShiftTx) error {
		rsvps, err := tx.RSVPs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list RSVPs for shift %s: %w", seed.ShiftID, err)
		}

		var target *model.RSVP
		for i := range rsvps {
			if rsvps[i].ID == rsvpID {
				target = &rsvps[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("sign-up %s: %w", rsvpID, ErrNotFound)
		}
		if !target.Active() {
			return fmt.Errorf("sign-up %s is %s and cannot lead a zone: %w",
				rsvpID, target.Status, ErrNotAvailable)
		}

		// Demote the previous holder before promoting the target so the
		// committed state never carries two flags.
		for _, r := range rsvps {
			if r.ID != rsvpID && r.IsZoneLead {
				r.IsZoneLead = false
				if err := tx.UpdateRSVP(ctx, r); err != nil {
					return err
				}
			}
		}

		if !target.IsZoneLead {
			target.IsZoneLead = true
			if err := tx.UpdateRSVP(ctx, *target); err != nil {
				return err
			}
		}
		promoted = *target
		return nil
	})
	if err != nil {
		return model.RSVP{}, err
	}

	logger.Info("Zone lead assigned",
		zap.String("rsvp_id", promoted.ID),
		zap.String("shift_id", promoted.ShiftID))

	dispatcher.Dispatch(ctx, notify.Event{
		Type:    notify.EventRSVPZoneLeadChanged,
		ShiftID: promoted.ShiftID,
		RSVPID:  promoted.ID,
		UserID:  promoted.UserID,
	})

	return promoted, nil
}
