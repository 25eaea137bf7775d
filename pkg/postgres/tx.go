package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// InShiftTx runs fn inside a transaction scoped to one shift. The shift's
// version is read at the start and compare-and-set bumped at commit; losing
// that race rolls everything back and surfaces db.ErrWriteConflict so the
// service layer can retry.
func (d *DB) InShiftTx(ctx context.Context, shiftID string, fn func(tx db.ShiftTx) error) error {
	pgtx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer pgtx.Rollback(ctx)

	var version int
	if err := pgtx.QueryRow(ctx, `SELECT version FROM shift WHERE id = $1`, shiftID).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("shift %s: %w", shiftID, db.ErrNotFound)
		}
		return fmt.Errorf("failed to read shift version: %w", err)
	}

	view := &shiftTx{tx: pgtx, shiftID: shiftID}
	if err := fn(view); err != nil {
		return err
	}

	tag, err := pgtx.Exec(ctx, `UPDATE shift SET version = version + 1 WHERE id = $1 AND version = $2`,
		shiftID, version)
	if err != nil {
		return fmt.Errorf("failed to bump shift version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %s: %w", shiftID, db.ErrWriteConflict)
	}

	if err := pgtx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("shift %s: %w", shiftID, db.ErrWriteConflict)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// shiftTx adapts a pgx transaction to the db.ShiftTx view
type shiftTx struct {
	tx      pgx.Tx
	shiftID string
}

func (t *shiftTx) Shift(ctx context.Context) (model.Shift, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shift WHERE id = $1`, t.shiftID)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Shift{}, fmt.Errorf("shift %s: %w", t.shiftID, db.ErrNotFound)
		}
		return model.Shift{}, fmt.Errorf("failed to get shift %s: %w", t.shiftID, err)
	}
	return shift, nil
}

func (t *shiftTx) RSVPs(ctx context.Context) ([]model.RSVP, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+rsvpColumns+` FROM rsvp WHERE shift_id = $1 ORDER BY id`, t.shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	defer rows.Close()
	return collectRSVPs(rows)
}

func (t *shiftTx) InsertRSVP(ctx context.Context, rsvp model.RSVP) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO rsvp (id, shift_id, user_id, qualified_role_id, is_zone_lead, status, check_in_at, check_out_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rsvp.ID, rsvp.ShiftID, rsvp.UserID, nullable(rsvp.QualifiedRoleID),
		rsvp.IsZoneLead, string(rsvp.Status), rsvp.CheckInAt, rsvp.CheckOutAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rsvp %s: %w", rsvp.ID, db.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert rsvp: %w", err)
	}
	return nil
}

func (t *shiftTx) UpdateRSVP(ctx context.Context, rsvp model.RSVP) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE rsvp
		SET qualified_role_id = $2, is_zone_lead = $3, status = $4, check_in_at = $5, check_out_at = $6
		WHERE id = $1
	`, rsvp.ID, nullable(rsvp.QualifiedRoleID), rsvp.IsZoneLead, string(rsvp.Status),
		rsvp.CheckInAt, rsvp.CheckOutAt)
	if err != nil {
		return fmt.Errorf("failed to update rsvp %s: %w", rsvp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rsvp %s: %w", rsvp.ID, db.ErrNotFound)
	}
	return nil
}

func (t *shiftTx) UpdateShift(ctx context.Context, shift model.Shift) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE shift
		SET zone_id = $2, shift_type_id = $3, shift_date = $4, start_time = $5, end_time = $6,
			min_volunteers = $7, ideal_volunteers = $8, max_volunteers = $9,
			status = $10, cancel_reason = $11
		WHERE id = $1
	`, shift.ID, shift.ZoneID, shift.ShiftTypeID, shift.Date, shift.StartTime, shift.EndTime,
		shift.MinVolunteers, shift.IdealVolunteers, shift.MaxVolunteers,
		string(shift.Status), nullable(shift.CancelReason))
	if err != nil {
		return fmt.Errorf("failed to update shift %s: %w", shift.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %s: %w", shift.ID, db.ErrNotFound)
	}
	return nil
}
