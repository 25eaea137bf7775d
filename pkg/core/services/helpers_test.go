package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/memstore"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// recordingDispatcher captures dispatched events for assertions
type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, event notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) byType(t notify.EventType) []notify.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notify.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// seededStore builds an in-memory store with the reference data the tests
// sign up against: one zone, one shift type, a counting role and a shadow
// role that does not count toward minimum staffing.
func seededStore() *memstore.Store {
	store := memstore.New()
	store.SeedZone(model.Zone{ID: "main-hall", Name: "Main Hall"})
	store.SeedShiftType(model.ShiftType{ID: "evening", Name: "Evening Session"})
	store.SeedQualifiedRole(model.QualifiedRole{ID: "steward", Slug: "steward", CountsTowardMinimum: true})
	store.SeedQualifiedRole(model.QualifiedRole{ID: "trainee", Slug: "trainee", CountsTowardMinimum: false})
	return store
}

var (
	coordinator = model.Actor{UserID: "coord-1", Coordinator: true}
	volunteer   = model.Actor{UserID: "vol-1"}
)

// fixedNow pins the clock well before the test shifts' dates
func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

func testShiftInput(publish bool) CreateShiftInput {
	return CreateShiftInput{
		ZoneID:          "main-hall",
		ShiftTypeID:     "evening",
		Date:            "2026-02-07",
		StartTime:       "18:00",
		EndTime:         "21:00",
		MinVolunteers:   2,
		IdealVolunteers: 4,
		MaxVolunteers:   6,
		Publish:         publish,
	}
}

// mustCreateShift seeds one shift through the real service path
func mustCreateShift(store *memstore.Store, publish bool) model.Shift {
	shift, err := CreateShift(
		context.Background(),
		store,
		store,
		&recordingDispatcher{},
		testLogger(),
		coordinator,
		model.Settings{},
		testShiftInput(publish),
		fixedNow,
	)
	if err != nil {
		panic(err)
	}
	return shift
}

// mustSignUp seeds one RSVP through the real service path
func mustSignUp(store *memstore.Store, shiftID, userID string, settings model.Settings) model.RSVP {
	rsvp, err := CreateRSVP(
		context.Background(),
		store,
		store,
		&recordingDispatcher{},
		testLogger(),
		model.Actor{UserID: userID},
		settings,
		CreateRSVPInput{ShiftID: shiftID},
		fixedNow,
	)
	if err != nil {
		panic(err)
	}
	return rsvp
}
