package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// The catalog tables are reference data owned by external collaborators;
// the engine only reads them.

// GetZone retrieves one zone by id
func (d *DB) GetZone(ctx context.Context, id string) (model.Zone, error) {
	var zone model.Zone
	err := d.pool.QueryRow(ctx, `SELECT id, name FROM zone WHERE id = $1`, id).
		Scan(&zone.ID, &zone.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Zone{}, fmt.Errorf("zone %s: %w", id, db.ErrNotFound)
		}
		return model.Zone{}, fmt.Errorf("failed to get zone %s: %w", id, err)
	}
	return zone, nil
}

// GetShiftType retrieves one shift type by id
func (d *DB) GetShiftType(ctx context.Context, id string) (model.ShiftType, error) {
	var st model.ShiftType
	err := d.pool.QueryRow(ctx, `SELECT id, name FROM shift_type WHERE id = $1`, id).
		Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ShiftType{}, fmt.Errorf("shift type %s: %w", id, db.ErrNotFound)
		}
		return model.ShiftType{}, fmt.Errorf("failed to get shift type %s: %w", id, err)
	}
	return st, nil
}

// GetQualifiedRole retrieves one qualified role by id
func (d *DB) GetQualifiedRole(ctx context.Context, id string) (model.QualifiedRole, error) {
	var role model.QualifiedRole
	err := d.pool.QueryRow(ctx,
		`SELECT id, slug, counts_toward_minimum FROM qualified_role WHERE id = $1`, id).
		Scan(&role.ID, &role.Slug, &role.CountsTowardMinimum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.QualifiedRole{}, fmt.Errorf("qualified role %s: %w", id, db.ErrNotFound)
		}
		return model.QualifiedRole{}, fmt.Errorf("failed to get qualified role %s: %w", id, err)
	}
	return role, nil
}

// RoleCounting returns roleID -> countsTowardMinimum for every role,
// authoritative at read time.
func (d *DB) RoleCounting(ctx context.Context) (map[string]bool, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, counts_toward_minimum FROM qualified_role`)
	if err != nil {
		return nil, fmt.Errorf("failed to query qualified roles: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]bool)
	for rows.Next() {
		var id string
		var counting bool
		if err := rows.Scan(&id, &counting); err != nil {
			return nil, fmt.Errorf("failed to scan qualified role: %w", err)
		}
		snapshot[id] = counting
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating qualified roles: %w", err)
	}
	return snapshot, nil
}
