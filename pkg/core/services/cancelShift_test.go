package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

func TestCancelShift_NotifiesEveryActiveSignUp(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	confirmed := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})
	pending := mustSignUp(store, shift.ID, "vol-2", model.Settings{})
	declined := mustSignUp(store, shift.ID, "vol-3", model.Settings{})
	_, err := CancelRSVP(ctx, store, &recordingDispatcher{}, testLogger(),
		model.Actor{UserID: "vol-3"}, shift.ID, "")
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	cancelled, err := CancelShift(ctx, store, dispatcher, testLogger(), coordinator, shift.ID, "venue flooded")
	require.NoError(t, err)

	assert.Equal(t, model.ShiftCancelled, cancelled.Status)
	assert.Equal(t, "venue flooded", cancelled.CancelReason)

	events := dispatcher.byType(notify.EventShiftCancelled)
	require.Len(t, events, 2, "One event per non-declined sign-up")
	notified := map[string]bool{}
	for _, e := range events {
		notified[e.UserID] = true
	}
	assert.True(t, notified[confirmed.UserID])
	assert.True(t, notified[pending.UserID])
	assert.False(t, notified[declined.UserID], "Declined sign-ups are not notified")
}

func TestCancelShift_KeepsRSVPStatuses(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	rsvp := mustSignUp(store, shift.ID, "vol-1", model.Settings{AutoConfirmRSVP: true})

	_, err := CancelShift(ctx, store, &recordingDispatcher{}, testLogger(), coordinator, shift.ID, "")
	require.NoError(t, err)

	stored, err := store.GetRSVP(ctx, rsvp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPConfirmed, stored.Status, "Cancellation keeps the sign-up as historical record")
}

func TestCancelShift_Idempotent(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	mustSignUp(store, shift.ID, "vol-1", model.Settings{})
	ctx := context.Background()

	first := &recordingDispatcher{}
	_, err := CancelShift(ctx, store, first, testLogger(), coordinator, shift.ID, "storm")
	require.NoError(t, err)
	require.Len(t, first.byType(notify.EventShiftCancelled), 1)

	second := &recordingDispatcher{}
	cancelled, err := CancelShift(ctx, store, second, testLogger(), coordinator, shift.ID, "storm again")
	require.NoError(t, err)
	assert.Equal(t, model.ShiftCancelled, cancelled.Status)
	assert.Equal(t, "storm", cancelled.CancelReason, "Re-cancel keeps the original reason")
	assert.Empty(t, second.events, "Re-cancel must not emit a second round of events")
}

func TestCancelShift_FromDraft(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, false)
	dispatcher := &recordingDispatcher{}

	cancelled, err := CancelShift(context.Background(), store, dispatcher, testLogger(), coordinator, shift.ID, "never happened")
	require.NoError(t, err)
	assert.Equal(t, model.ShiftCancelled, cancelled.Status)
	assert.Empty(t, dispatcher.events, "No sign-ups, no events")
}

func TestCancelShift_RequiresCoordinator(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)

	_, err := CancelShift(context.Background(), store, &recordingDispatcher{}, testLogger(), volunteer, shift.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelShift_NotFound(t *testing.T) {
	store := seededStore()

	_, err := CancelShift(context.Background(), store, &recordingDispatcher{}, testLogger(), coordinator, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
