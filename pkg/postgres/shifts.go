package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

const shiftColumns = `id, zone_id, shift_type_id, shift_date, start_time, end_time,
	min_volunteers, ideal_volunteers, max_volunteers, status, created_by, cancel_reason, version`

// InsertShift records a new shift with version 1
func (d *DB) InsertShift(ctx context.Context, shift model.Shift) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO shift (id, zone_id, shift_type_id, shift_date, start_time, end_time,
			min_volunteers, ideal_volunteers, max_volunteers, status, created_by, cancel_reason, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)
	`, shift.ID, shift.ZoneID, shift.ShiftTypeID, shift.Date, shift.StartTime, shift.EndTime,
		shift.MinVolunteers, shift.IdealVolunteers, shift.MaxVolunteers,
		string(shift.Status), shift.CreatedBy, nullable(shift.CancelReason))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("shift %s: %w", shift.ID, db.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// GetShift retrieves one shift by id
func (d *DB) GetShift(ctx context.Context, id string) (model.Shift, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shift WHERE id = $1`, id)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Shift{}, fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
		}
		return model.Shift{}, fmt.Errorf("failed to get shift %s: %w", id, err)
	}
	return shift, nil
}

// UpdateShift commits a shift mutation with a compare-and-set on version
func (d *DB) UpdateShift(ctx context.Context, shift model.Shift) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift
		SET zone_id = $2, shift_type_id = $3, shift_date = $4, start_time = $5, end_time = $6,
			min_volunteers = $7, ideal_volunteers = $8, max_volunteers = $9,
			status = $10, cancel_reason = $11, version = version + 1
		WHERE id = $1 AND version = $12
	`, shift.ID, shift.ZoneID, shift.ShiftTypeID, shift.Date, shift.StartTime, shift.EndTime,
		shift.MinVolunteers, shift.IdealVolunteers, shift.MaxVolunteers,
		string(shift.Status), nullable(shift.CancelReason), shift.Version)
	if err != nil {
		return fmt.Errorf("failed to update shift %s: %w", shift.ID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or a concurrent writer bumped the version
		var exists bool
		if err := d.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM shift WHERE id = $1)`, shift.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shift %s: %w", shift.ID, err)
		}
		if !exists {
			return fmt.Errorf("shift %s: %w", shift.ID, db.ErrNotFound)
		}
		return fmt.Errorf("shift %s: %w", shift.ID, db.ErrWriteConflict)
	}
	return nil
}

// ListShifts retrieves shifts matching the filter, ordered by date
func (d *DB) ListShifts(ctx context.Context, filter db.ShiftFilter) ([]model.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shift`
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ZoneID != "" {
		clauses = append(clauses, "zone_id = "+arg(filter.ZoneID))
	}
	if filter.ShiftTypeID != "" {
		clauses = append(clauses, "shift_type_id = "+arg(filter.ShiftTypeID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, "status = ANY("+arg(statuses)+")")
	}
	if filter.DateFrom != "" {
		clauses = append(clauses, "shift_date >= "+arg(filter.DateFrom))
	}
	if filter.DateTo != "" {
		clauses = append(clauses, "shift_date <= "+arg(filter.DateTo))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY shift_date, id"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

func scanShift(row pgx.Row) (model.Shift, error) {
	var s model.Shift
	var status string
	var cancelReason *string
	if err := row.Scan(&s.ID, &s.ZoneID, &s.ShiftTypeID, &s.Date, &s.StartTime, &s.EndTime,
		&s.MinVolunteers, &s.IdealVolunteers, &s.MaxVolunteers, &status, &s.CreatedBy,
		&cancelReason, &s.Version); err != nil {
		return model.Shift{}, err
	}
	s.Status = model.ShiftStatus(status)
	if cancelReason != nil {
		s.CancelReason = *cancelReason
	}
	return s, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
