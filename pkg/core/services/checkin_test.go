package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

func TestRecordCheckIn(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})
	at := time.Date(2026, 2, 7, 18, 5, 0, 0, time.UTC)

	updated, err := RecordCheckIn(context.Background(), store, testLogger(), coordinator, rsvp.ID, at)
	require.NoError(t, err)
	require.NotNil(t, updated.CheckInAt)
	assert.Equal(t, at, *updated.CheckInAt)
}

func TestRecordCheckIn_IdempotentKeepsFirstStamp(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})
	ctx := context.Background()

	first := time.Date(2026, 2, 7, 18, 5, 0, 0, time.UTC)
	_, err := RecordCheckIn(ctx, store, testLogger(), coordinator, rsvp.ID, first)
	require.NoError(t, err)

	updated, err := RecordCheckIn(ctx, store, testLogger(), coordinator, rsvp.ID, first.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, updated.CheckInAt)
	assert.Equal(t, first, *updated.CheckInAt)
}

func TestRecordCheckIn_RequiresConfirmed(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{})

	_, err := RecordCheckIn(context.Background(), store, testLogger(), coordinator, rsvp.ID, time.Now())
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestRecordCheckOut(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})
	ctx := context.Background()

	in := time.Date(2026, 2, 7, 18, 0, 0, 0, time.UTC)
	out := in.Add(3 * time.Hour)

	_, err := RecordCheckIn(ctx, store, testLogger(), coordinator, rsvp.ID, in)
	require.NoError(t, err)

	updated, err := RecordCheckOut(ctx, store, testLogger(), coordinator, rsvp.ID, out)
	require.NoError(t, err)
	require.NotNil(t, updated.CheckOutAt)
	assert.Equal(t, out, *updated.CheckOutAt)
}

func TestRecordCheckOut_RequiresCheckIn(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})

	_, err := RecordCheckOut(context.Background(), store, testLogger(), coordinator, rsvp.ID, time.Now())
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestMarkNoShow(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})
	dispatcher := &recordingDispatcher{}

	updated, err := MarkNoShow(context.Background(), store, dispatcher, testLogger(), coordinator, rsvp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPNoShow, updated.Status)
	assert.Len(t, dispatcher.byType(notify.EventRSVPNoShow), 1)
}

func TestMarkNoShow_RequiresConfirmed(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{})

	_, err := MarkNoShow(context.Background(), store, &recordingDispatcher{}, testLogger(), coordinator, rsvp.ID)
	assert.ErrorIs(t, err, ErrNotAvailable, "Pending sign-ups cannot be marked no-show")
}

func TestAttendance_RequiresCoordinator(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})

	_, err := RecordCheckIn(context.Background(), store, testLogger(), volunteer, rsvp.ID, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}
