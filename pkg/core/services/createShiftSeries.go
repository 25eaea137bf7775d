package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

// maxSeriesOccurrences bounds a single series so a runaway rule cannot
// flood the registry.
const maxSeriesOccurrences = 366

// CreateShiftSeriesInput describes a recurring run of shifts sharing one
// template. The template's Date field is ignored; occurrence dates come
// from the recurrence rule.
type CreateShiftSeriesInput struct {
	Template CreateShiftInput
	// RRule is an RFC 5545 recurrence rule, e.g.
	// "DTSTART:20260105T000000Z\nRRULE:FREQ=WEEKLY;BYDAY=SU;COUNT=8"
	RRule string
}

// SeriesResult aggregates per-occurrence outcomes. Dates that fail
// validation are reported individually and never block the others.
type SeriesResult struct {
	Created []model.Shift
	Failed  []BulkFailure
}

// CreateShiftSeries expands a recurrence rule into dated shifts, creating
// each one independently with the usual createShift validation.
func CreateShiftSeries(
	ctx context.Context,
	store CreateShiftStore,
	catalog db.Catalog,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
	actor model.Actor,
	settings model.Settings,
	input CreateShiftSeriesInput,
	now func() time.Time,
) (SeriesResult, error) {
	logger.Debug("Starting createShiftSeries", zap.String("rrule", input.RRule))

	if !actor.Coordinator {
		return SeriesResult{}, fmt.Errorf("creating shifts requires coordinator capability: %w", ErrForbidden)
	}

	rule, err := rrule.StrToRRule(input.RRule)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("rrule", fmt.Sprintf("invalid recurrence rule: %v", err))
		return SeriesResult{}, vErr
	}

	if rule.OrigOptions.Count == 0 && rule.OrigOptions.Until.IsZero() {
		vErr := &ValidationError{}
		vErr.add("rrule", "rule must be bounded with COUNT or UNTIL")
		return SeriesResult{}, vErr
	}

	dates := rule.All()
	if len(dates) == 0 {
		vErr := &ValidationError{}
		vErr.add("rrule", "rule yields no occurrences")
		return SeriesResult{}, vErr
	}
	if len(dates) > maxSeriesOccurrences {
		vErr := &ValidationError{}
		vErr.add("rrule", fmt.Sprintf("rule yields %d occurrences, limit is %d", len(dates), maxSeriesOccurrences))
		return SeriesResult{}, vErr
	}

	var result SeriesResult
	for _, date := range dates {
		occurrence := input.Template
		occurrence.Date = date.Format(model.DateFormat)

		shift, err := CreateShift(ctx, store, catalog, dispatcher, logger, actor, settings, occurrence, now)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: occurrence.Date, Reason: failureReason(err)})
			continue
		}
		result.Created = append(result.Created, shift)
	}

	logger.Info("Shift series created",
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}
