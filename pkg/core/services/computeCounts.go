package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/capacity"
	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// ComputeCountsStore defines the database operations needed to derive counts
type ComputeCountsStore interface {
	GetShift(ctx context.Context, id string) (model.Shift, error)
	ListShiftRSVPs(ctx context.Context, shiftID string) ([]model.RSVP, error)
}

// ComputeCounts reports a shift's live staffing counts. This is the
// read-only view; admission decisions recompute inside the shift transaction.
func ComputeCounts(
	ctx context.Context,
	store ComputeCountsStore,
	catalog db.Catalog,
	logger *zap.Logger,
	shiftID string,
) (capacity.Counts, error) {
	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return capacity.Counts{}, fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
		}
		return capacity.Counts{}, fmt.Errorf("failed to get shift %s: %w", shiftID, err)
	}

	rsvps, err := store.ListShiftRSVPs(ctx, shiftID)
	if err != nil {
		return capacity.Counts{}, fmt.Errorf("failed to list RSVPs for shift %s: %w", shiftID, err)
	}

	roleCounts, err := catalog.RoleCounting(ctx)
	if err != nil {
		return capacity.Counts{}, fmt.Errorf("failed to read role counting snapshot: %w", err)
	}

	counts := capacity.Compute(shift, rsvps, capacity.Snapshot(roleCounts))
	logger.Debug("Computed shift counts",
		zap.String("shift_id", shiftID),
		zap.Int("confirmed", counts.Confirmed),
		zap.Int("pending", counts.Pending),
		zap.Int("spots_left", counts.SpotsLeft))
	return counts, nil
}
