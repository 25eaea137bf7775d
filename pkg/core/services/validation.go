package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// validateStaffing enforces 0 <= min <= ideal <= max
func validateStaffing(min, ideal, max int, vErr *ValidationError) {
	if min < 0 {
		vErr.add("minVolunteers", "must not be negative")
	}
	if ideal < min {
		vErr.add("idealVolunteers", "must be at least minVolunteers")
	}
	if max < ideal {
		vErr.add("maxVolunteers", "must be at least idealVolunteers")
	}
}

// validateWindow enforces parseable date and start < end
func validateWindow(date, startTime, endTime string, vErr *ValidationError) {
	if _, err := model.ParseDate(date); err != nil {
		vErr.add("date", "must be a date in 2006-01-02 format")
	}
	start, startErr := model.ParseClock(startTime)
	if startErr != nil {
		vErr.add("startTime", "must be a time in 15:04 format")
	}
	end, endErr := model.ParseClock(endTime)
	if endErr != nil {
		vErr.add("endTime", "must be a time in 15:04 format")
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		vErr.add("endTime", "must be after startTime")
	}
}

// validateCatalogRefs checks that the referenced zone and shift type exist.
// Lookup failures other than not-found are returned as-is.
func validateCatalogRefs(ctx context.Context, catalog db.Catalog, zoneID, shiftTypeID string, vErr *ValidationError) error {
	if zoneID == "" {
		vErr.add("zoneId", "is required")
	} else if _, err := catalog.GetZone(ctx, zoneID); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("failed to look up zone %s: %w", zoneID, err)
		}
		vErr.add("zoneId", "unknown zone")
	}
	if shiftTypeID == "" {
		vErr.add("shiftTypeId", "is required")
	} else if _, err := catalog.GetShiftType(ctx, shiftTypeID); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("failed to look up shift type %s: %w", shiftTypeID, err)
		}
		vErr.add("shiftTypeId", "unknown shift type")
	}
	return nil
}
