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

func TestCreateRSVP_PendingByDefault(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	dispatcher := &recordingDispatcher{}

	rsvp, err := CreateRSVP(context.Background(), store, store, dispatcher, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, model.RSVPPending, rsvp.Status)
	assert.Equal(t, "vol-1", rsvp.UserID)
	assert.False(t, rsvp.IsZoneLead)
	require.Len(t, dispatcher.byType(notify.EventRSVPCreated), 1)
}

func TestCreateRSVP_AutoConfirmPolicy(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)

	rsvp, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{AutoConfirmRSVP: true}, CreateRSVPInput{ShiftID: shift.ID}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPConfirmed, rsvp.Status)
}

func TestCreateRSVP_CoordinatorOnBehalfConfirms(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)

	rsvp, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		coordinator, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID, UserID: "vol-9"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "vol-9", rsvp.UserID)
	assert.Equal(t, model.RSVPConfirmed, rsvp.Status, "Coordinator placements skip the pending stage")
}

func TestCreateRSVP_OnBehalfRequiresCoordinator(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)

	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID, UserID: "vol-9"}, fixedNow)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRSVP_ManagedModeBlocksSelfSignUp(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	settings := model.Settings{SchedulingMode: model.SchedulingManaged}

	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, settings, CreateRSVPInput{ShiftID: shift.ID}, fixedNow)
	assert.ErrorIs(t, err, ErrForbidden)

	rsvp, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		coordinator, settings, CreateRSVPInput{ShiftID: shift.ID, UserID: "vol-1"}, fixedNow)
	require.NoError(t, err, "Coordinators still place volunteers in managed mode")
	assert.Equal(t, "vol-1", rsvp.UserID)
}

func TestCreateRSVP_DuplicateActiveSignUp(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	mustSignUp(store, shift.ID, "vol-1", model.Settings{})

	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID}, fixedNow)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateRSVP_DeclinedUserMaySignUpAgain(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	mustSignUp(store, shift.ID, "vol-1", model.Settings{})
	_, err := CancelRSVP(ctx, store, &recordingDispatcher{}, testLogger(), volunteer, shift.ID, "")
	require.NoError(t, err)

	rsvp, err := CreateRSVP(ctx, store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPPending, rsvp.Status)
}

func TestCreateRSVP_PendingReservesCapacity(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true) // max 6
	ctx := context.Background()

	// 3 confirmed + 3 pending fills the shift
	for _, user := range []string{"a", "b", "c"} {
		mustSignUp(store, shift.ID, user, model.Settings{AutoConfirmRSVP: true})
	}
	for _, user := range []string{"d", "e", "f"} {
		mustSignUp(store, shift.ID, user, model.Settings{})
	}

	_, err := CreateRSVP(ctx, store, store, &recordingDispatcher{}, testLogger(),
		model.Actor{UserID: "g"}, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID}, fixedNow)
	assert.ErrorIs(t, err, ErrFull, "Pending sign-ups hold their slot")

	counts, err := ComputeCounts(ctx, store, store, testLogger(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Confirmed)
	assert.Equal(t, 3, counts.Pending)
	assert.Equal(t, 0, counts.SpotsLeft)
}

func TestCreateRSVP_RequiresPublishedShift(t *testing.T) {
	store := seededStore()
	draft := mustCreateShift(store, false)

	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: draft.ID}, fixedNow)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateRSVP_PastShift(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true) // dated 2026-02-07

	after := func() time.Time { return time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC) }
	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID}, after)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateRSVP_UnknownRole(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)

	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID, QualifiedRoleID: "wizard"}, fixedNow)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "qualifiedRoleId")
}

func TestCreateRSVP_ZoneLeadUniqueOnEntry(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true)
	ctx := context.Background()

	lead, err := CreateRSVP(ctx, store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID, ZoneLead: true}, fixedNow)
	require.NoError(t, err)
	assert.True(t, lead.IsZoneLead)

	_, err = CreateRSVP(ctx, store, store, &recordingDispatcher{}, testLogger(),
		model.Actor{UserID: "vol-2"}, model.Settings{}, CreateRSVPInput{ShiftID: shift.ID, ZoneLead: true}, fixedNow)
	assert.ErrorIs(t, err, ErrConflict, "A second zone lead request must be rejected while the first holds the flag")
}

func TestCreateRSVP_ShiftNotFound(t *testing.T) {
	store := seededStore()

	_, err := CreateRSVP(context.Background(), store, store, &recordingDispatcher{}, testLogger(),
		volunteer, model.Settings{}, CreateRSVPInput{ShiftID: "missing"}, fixedNow)
	assert.ErrorIs(t, err, ErrNotFound)
}
