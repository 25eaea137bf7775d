package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/notify"
)

func TestConfirmRSVPs_ExplicitIDs(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	a := mustSignUp(store, shift.ID, "a", model.Settings{})
	b := mustSignUp(store, shift.ID, "b", model.Settings{})
	dispatcher := &recordingDispatcher{}

	result, err := ConfirmRSVPs(ctx, store, dispatcher, testLogger(), coordinator,
		[]string{a.ID}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Confirmed)
	assert.Len(t, dispatcher.byType(notify.EventRSVPConfirmed), 1)

	storedA, err := store.GetRSVP(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPConfirmed, storedA.Status)

	storedB, err := store.GetRSVP(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPPending, storedB.Status, "Untargeted sign-ups stay pending")
}

func TestConfirmRSVPs_AllPendingForShift(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	mustSignUp(store, shift.ID, "a", model.Settings{})
	mustSignUp(store, shift.ID, "b", model.Settings{})
	mustSignUp(store, shift.ID, "c", model.Settings{AutoConfirmRSVP: true})

	result, err := ConfirmRSVPs(ctx, store, &recordingDispatcher{}, testLogger(), coordinator,
		nil, shift.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Confirmed)
	assert.Len(t, result.AlreadyConfirmed, 1)
	assert.Empty(t, result.Skipped, "Sweep mode does not report terminal records")
}

func TestConfirmRSVPs_TerminalTargetsSkipped(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	a := mustSignUp(store, shift.ID, "a", model.Settings{})
	_, err := CancelRSVP(ctx, store, &recordingDispatcher{}, testLogger(), model.Actor{UserID: "a"}, shift.ID, "")
	require.NoError(t, err)

	result, err := ConfirmRSVPs(ctx, store, &recordingDispatcher{}, testLogger(), coordinator,
		[]string{a.ID}, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Confirmed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, a.ID, result.Skipped[0].ID)
	assert.Equal(t, model.RSVPDeclined, result.Skipped[0].Status)
}

func TestConfirmRSVPs_UnknownIDs(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	a := mustSignUp(store, shift.ID, "a", model.Settings{})

	result, err := ConfirmRSVPs(context.Background(), store, &recordingDispatcher{}, testLogger(), coordinator,
		[]string{a.ID, "missing-1", "missing-2"}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Confirmed)
	assert.ElementsMatch(t, []string{"missing-1", "missing-2"}, result.NotFound)
}

func TestConfirmRSVPs_RequiresTarget(t *testing.T) {
	store := seededStore()

	_, err := ConfirmRSVPs(context.Background(), store, &recordingDispatcher{}, testLogger(), coordinator, nil, "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestConfirmRSVPs_RejectsBothTargets(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	listed := mustSignUp(store, shift.ID, "vol-1", model.Settings{})
	swept := mustSignUp(store, shift.ID, "vol-2", model.Settings{})
	ctx := context.Background()

	_, err := ConfirmRSVPs(ctx, store, &recordingDispatcher{}, testLogger(), coordinator,
		[]string{listed.ID}, shift.ID)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// Neither targeting form may have been applied
	for _, id := range []string{listed.ID, swept.ID} {
		rsvp, err := store.GetRSVP(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.RSVPPending, rsvp.Status)
	}
}

func TestConfirmRSVPs_RequiresCoordinator(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)

	_, err := ConfirmRSVPs(context.Background(), store, &recordingDispatcher{}, testLogger(), volunteer, nil, shift.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmRSVPs_UnknownShift(t *testing.T) {
	store := seededStore()

	_, err := ConfirmRSVPs(context.Background(), store, &recordingDispatcher{}, testLogger(), coordinator, nil, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
