package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// BulkOp names a coordinator multi-select action
type BulkOp string

const (
	BulkCancel         BulkOp = "cancel"
	BulkPublish        BulkOp = "publish"
	BulkConfirmPending BulkOp = "confirmPending"
	BulkFieldEdit      BulkOp = "fieldEdit"
)

// BulkArgs carries the per-operation parameters of a bulk action
type BulkArgs struct {
	Reason string     // cancel
	Patch  ShiftPatch // fieldEdit
}

// BulkFailure reports one target that could not be processed
type BulkFailure struct {
	ID     string
	Reason string
}

// BulkResult aggregates per-item outcomes of a bulk operation
type BulkResult struct {
	Succeeded []string
	Failed    []BulkFailure
}

// BulkEditShifts applies one operation across a set of shift identifiers.
// Each target is validated and committed independently; a failure on one
// never blocks or rolls back the others. The batch is explicitly non-atomic
// and has no mid-flight cancellation.
func BulkEditShifts(
	ctx context.Context,
	store db.Store,
	catalog db.Catalog,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	op BulkOp,
	shiftIDs []string,
	args BulkArgs,
	now func() time.Time,
) (BulkResult, error) {
	logger.Debug("Starting bulkEditShifts",
		zap.String("op", string(op)),
		zap.Int("targets", len(shiftIDs)))

	var apply func(id string) error
	switch op {
	case BulkCancel:
		apply = func(id string) error {
			_, err := CancelShift(ctx, store, dispatcher, logger, actor, id, args.Reason)
			return err
		}
	case BulkPublish:
		apply = func(id string) error {
			_, err := PublishShift(ctx, store, dispatcher, logger, actor, id)
			return err
		}
	case BulkConfirmPending:
		apply = func(id string) error {
			_, err := ConfirmRSVPs(ctx, store, dispatcher, logger, actor, nil, id)
			return err
		}
	case BulkFieldEdit:
		apply = func(id string) error {
			_, err := UpdateShift(ctx, store, catalog, logger, actor, id, args.Patch, now)
			return err
		}
	default:
		vErr := &ValidationError{}
		vErr.add("op", fmt.Sprintf("unknown bulk operation %q", op))
		return BulkResult{}, vErr
	}

	result := runBulk(shiftIDs, apply)
	logger.Info("Bulk operation finished",
		zap.String("op", string(op)),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// runBulk applies one operation per target, collecting outcomes
func runBulk(ids []string, apply func(id string) error) BulkResult {
	var result BulkResult
	for _, id := range ids {
		if err := apply(id); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: failureReason(err)})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}
