package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

const rsvpColumns = `id, shift_id, user_id, qualified_role_id, is_zone_lead, status, check_in_at, check_out_at`

// GetRSVP retrieves one sign-up by id
func (d *DB) GetRSVP(ctx context.Context, id string) (model.RSVP, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+rsvpColumns+` FROM rsvp WHERE id = $1`, id)
	rsvp, err := scanRSVP(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RSVP{}, fmt.Errorf("rsvp %s: %w", id, db.ErrNotFound)
		}
		return model.RSVP{}, fmt.Errorf("failed to get rsvp %s: %w", id, err)
	}
	return rsvp, nil
}

// ListShiftRSVPs retrieves all sign-ups for a shift
func (d *DB) ListShiftRSVPs(ctx context.Context, shiftID string) ([]model.RSVP, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+rsvpColumns+` FROM rsvp WHERE shift_id = $1 ORDER BY id`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	defer rows.Close()
	return collectRSVPs(rows)
}

func collectRSVPs(rows pgx.Rows) ([]model.RSVP, error) {
	var rsvps []model.RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rsvps: %w", err)
	}
	return rsvps, nil
}

func scanRSVP(row pgx.Row) (model.RSVP, error) {
	var r model.RSVP
	var roleID *string
	var status string
	if err := row.Scan(&r.ID, &r.ShiftID, &r.UserID, &roleID, &r.IsZoneLead,
		&status, &r.CheckInAt, &r.CheckOutAt); err != nil {
		return model.RSVP{}, err
	}
	if roleID != nil {
		r.QualifiedRoleID = *roleID
	}
	r.Status = model.RSVPStatus(status)
	return r, nil
}
