package db

import (
	"context"

	"github.com/harbourwatch/scheduler/pkg/core/model"
)

// ShiftFilter narrows shift listing queries. Zero values mean "no filter".
type ShiftFilter struct {
	ZoneID      string
	ShiftTypeID string
	Statuses    []model.ShiftStatus
	DateFrom    string // inclusive, date format (2006-01-02)
	DateTo      string // inclusive
}

// ShiftTx is a transaction view scoped to a single shift. All reads observe
// a consistent snapshot and all writes commit atomically, or not at all.
type ShiftTx interface {
	Shift(ctx context.Context) (model.Shift, error)
	RSVPs(ctx context.Context) ([]model.RSVP, error)
	InsertRSVP(ctx context.Context, rsvp model.RSVP) error
	UpdateRSVP(ctx context.Context, rsvp model.RSVP) error
	UpdateShift(ctx context.Context, shift model.Shift) error
}

// Store defines the persistence operations the engine needs.
// Both the Postgres-backed store and the in-memory store implement it.
type Store interface {
	InsertShift(ctx context.Context, shift model.Shift) error
	GetShift(ctx context.Context, id string) (model.Shift, error)
	// UpdateShift commits a shift mutation with a compare-and-set on the
	// record's version, returning ErrWriteConflict when a concurrent writer
	// won the race.
	UpdateShift(ctx context.Context, shift model.Shift) error
	ListShifts(ctx context.Context, filter ShiftFilter) ([]model.Shift, error)

	GetRSVP(ctx context.Context, id string) (model.RSVP, error)
	ListShiftRSVPs(ctx context.Context, shiftID string) ([]model.RSVP, error)

	// InShiftTx runs fn inside a transaction scoped to one shift. Committing
	// bumps the shift's version; a lost version race surfaces as
	// ErrWriteConflict and rolls the whole transaction back.
	InShiftTx(ctx context.Context, shiftID string, fn func(tx ShiftTx) error) error
}

// Catalog exposes the read-only reference data owned by external
// collaborators: zones, shift types and qualified roles.
type Catalog interface {
	GetZone(ctx context.Context, id string) (model.Zone, error)
	GetShiftType(ctx context.Context, id string) (model.ShiftType, error)
	GetQualifiedRole(ctx context.Context, id string) (model.QualifiedRole, error)
	// RoleCounting returns a snapshot of roleID -> countsTowardMinimum,
	// authoritative at read time.
	RoleCounting(ctx context.Context) (map[string]bool, error)
}
