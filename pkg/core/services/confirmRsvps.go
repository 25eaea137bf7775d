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

// ConfirmRSVPsStore defines the database operations needed to confirm sign-ups
type ConfirmRSVPsStore interface {
	GetRSVP(ctx context.Context, id string) (model.RSVP, error)
	InShiftTx(ctx context.Context, shiftID string, fn func(tx db.ShiftTx) error) error
}

// SkippedRSVP reports a sign-up left untouched by a bulk confirm because it
// sits in a terminal state.
type SkippedRSVP struct {
	ID     string
	Status model.RSVPStatus
}

// ConfirmResult aggregates a PENDING -> CONFIRMED sweep
type ConfirmResult struct {
	Confirmed        int
	AlreadyConfirmed []string
	Skipped          []SkippedRSVP
	NotFound         []string
}

// ConfirmRSVPs moves PENDING sign-ups to CONFIRMED. Targets are either an
// explicit id list or every pending sign-up of one shift (shiftID set, ids
// nil); supplying both is a validation error. Already-confirmed targets
// no-op; terminal targets are skipped and reported, never errors.
func ConfirmRSVPs(
	ctx context.Context,
	store ConfirmRSVPsStore,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	ids []string,
	shiftID string,
) (ConfirmResult, error) {
	logger.Debug("Starting confirmRSVPs",
		zap.Int("id_count", len(ids)),
		zap.String("shift_id", shiftID))

	if !actor.Coordinator {
		return ConfirmResult{}, fmt.Errorf("confirming sign-ups requires coordinator capability: %w", ErrForbidden)
	}
	if len(ids) == 0 && shiftID == "" {
		vErr := &ValidationError{}
		vErr.add("ids", "either ids or shiftId is required")
		return ConfirmResult{}, vErr
	}
	if len(ids) > 0 && shiftID != "" {
		vErr := &ValidationError{}
		vErr.add("ids", "provide either ids or shiftId, not both")
		return ConfirmResult{}, vErr
	}

	var result ConfirmResult

	// Resolve explicit ids to their shifts so each shift is confirmed in
	// its own transaction.
	byShift := make(map[string][]string)
	if shiftID != "" {
		byShift[shiftID] = nil // nil target list means "all pending"
	}
	for _, id := range ids {
		rsvp, err := store.GetRSVP(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				result.NotFound = append(result.NotFound, id)
				continue
			}
			return ConfirmResult{}, fmt.Errorf("failed to get sign-up %s: %w", id, err)
		}
		byShift[rsvp.ShiftID] = append(byShift[rsvp.ShiftID], id)
	}

	for txShiftID, targets := range byShift {
		var (
			confirmed []model.RSVP
			already   []string
			skipped   []SkippedRSVP
		)
		err := withShiftTx(ctx, store, logger, txShiftID, func(tx db.ShiftTx) error {
			confirmed = nil
			already = nil
			skipped = nil

			rsvps, err := tx.RSVPs(ctx)
			if err != nil {
				return fmt.Errorf("failed to list RSVPs for shift %s: %w", txShiftID, err)
			}

			wanted := make(map[string]bool, len(targets))
			for _, id := range targets {
				wanted[id] = true
			}

			for _, r := range rsvps {
				if targets != nil && !wanted[r.ID] {
					continue
				}
				switch r.Status {
				case model.RSVPPending:
					r.Status = model.RSVPConfirmed
					if err := tx.UpdateRSVP(ctx, r); err != nil {
						return err
					}
					confirmed = append(confirmed, r)
				case model.RSVPConfirmed:
					already = append(already, r.ID)
				default:
					// DECLINED and NO_SHOW are terminal; skip, don't error
					if targets != nil {
						skipped = append(skipped, SkippedRSVP{ID: r.ID, Status: r.Status})
					}
				}
			}
			return nil
		})
		if err != nil {
			return ConfirmResult{}, err
		}

		result.Confirmed += len(confirmed)
		result.AlreadyConfirmed = append(result.AlreadyConfirmed, already...)
		result.Skipped = append(result.Skipped, skipped...)

		for _, r := range confirmed {
			dispatcher.Dispatch(ctx, notify.Event{
				Type:    notify.EventRSVPConfirmed,
				ShiftID: r.ShiftID,
				RSVPID:  r.ID,
				UserID:  r.UserID,
			})
		}
	}

	logger.Info("Sign-ups confirmed",
		zap.Int("confirmed", result.Confirmed),
		zap.Int("already_confirmed", len(result.AlreadyConfirmed)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}
