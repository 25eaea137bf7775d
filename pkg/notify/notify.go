// Package notify carries committed transition events toward the external
// notification collaborator. Dispatch is fire-and-forget: delivery failures
// are logged by the adapter and never surfaced to the engine caller.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// EventType names a committed engine transition
type EventType string

const (
	EventShiftPublished      EventType = "shift.published"
	EventShiftCancelled      EventType = "shift.cancelled"
	EventShiftStarted        EventType = "shift.started"
	EventShiftCompleted      EventType = "shift.completed"
	EventRSVPCreated         EventType = "rsvp.created"
	EventRSVPConfirmed       EventType = "rsvp.confirmed"
	EventRSVPDeclined        EventType = "rsvp.declined"
	EventRSVPNoShow          EventType = "rsvp.no_show"
	EventRSVPZoneLeadChanged EventType = "rsvp.zone_lead_changed"
)

// Event describes one committed transition. RSVPID and UserID are empty for
// shift-level events with no affected sign-up.
type Event struct {
	Type    EventType
	ShiftID string
	RSVPID  string
	UserID  string
}

// Dispatcher receives events after the owning transaction has committed
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// LogDispatcher records events through the application logger. It is the
// default adapter when no outbound transport is configured.
type LogDispatcher struct {
	Logger *zap.Logger
}

func (d *LogDispatcher) Dispatch(ctx context.Context, event Event) {
	d.Logger.Info("Dispatching notification event",
		zap.String("type", string(event.Type)),
		zap.String("shift_id", event.ShiftID),
		zap.String("rsvp_id", event.RSVPID),
		zap.String("user_id", event.UserID))
}
