package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// ListShiftsStore defines the database operations needed to list shifts
type ListShiftsStore interface {
	ListShifts(ctx context.Context, filter db.ShiftFilter) ([]model.Shift, error)
}

// ListShifts returns the shifts matching the filter. Listing reads need no
// special isolation; an eventually-consistent view is acceptable.
func ListShifts(
	ctx context.Context,
	store ListShiftsStore,
	logger *zap.Logger,
	filter db.ShiftFilter,
) ([]model.Shift, error) {
	vErr := &ValidationError{}
	for _, s := range filter.Statuses {
		if !s.IsValid() {
			vErr.add("statuses", fmt.Sprintf("unknown status %q", s))
		}
	}
	if filter.DateFrom != "" {
		if _, err := model.ParseDate(filter.DateFrom); err != nil {
			vErr.add("dateFrom", "must be a date in 2006-01-02 format")
		}
	}
	if filter.DateTo != "" {
		if _, err := model.ParseDate(filter.DateTo); err != nil {
			vErr.add("dateTo", "must be a date in 2006-01-02 format")
		}
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	shifts, err := store.ListShifts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	logger.Debug("Listed shifts", zap.Int("count", len(shifts)))
	return shifts, nil
}
