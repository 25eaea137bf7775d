package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/db"
)

// shiftTxRunner is the minimal store capability for shift-scoped transactions
type shiftTxRunner interface {
	InShiftTx(ctx context.Context, shiftID string, fn func(tx db.ShiftTx) error) error
}

// withShiftTx runs fn in a transaction scoped to one shift, retrying exactly
// once when a concurrent writer wins the version race. fn must be written to
// re-run cleanly: assign captured state, never accumulate it. Storage
// sentinels are translated here, so a missing shift surfaces to callers as
// ErrNotFound and a persistent race as ErrConflict.
func withShiftTx(ctx context.Context, store shiftTxRunner, logger *zap.Logger, shiftID string, fn func(tx db.ShiftTx) error) error {
	err := store.InShiftTx(ctx, shiftID, fn)
	if errors.Is(err, db.ErrWriteConflict) {
		logger.Debug("Retrying shift transaction after write conflict",
			zap.String("shift_id", shiftID))
		err = store.InShiftTx(ctx, shiftID, fn)
	}
	if errors.Is(err, db.ErrWriteConflict) {
		return fmt.Errorf("shift %s lost two write races: %w", shiftID, ErrConflict)
	}
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
	}
	return err
}

// clockOrNow defaults a nil clock to the wall clock. Services take the clock
// as a parameter so tests can pin the evaluation time per case.
func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
