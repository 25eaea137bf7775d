package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

func TestListShifts_FiltersByStatusAndDate(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	draft := mustCreateShift(store, false)
	published := mustCreateShift(store, true)

	shifts, err := ListShifts(ctx, store, testLogger(), db.ShiftFilter{
		Statuses: []model.ShiftStatus{model.ShiftPublished},
	})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, published.ID, shifts[0].ID)
	assert.NotEqual(t, draft.ID, shifts[0].ID)

	shifts, err = ListShifts(ctx, store, testLogger(), db.ShiftFilter{
		DateFrom: "2026-02-01",
		DateTo:   "2026-02-28",
	})
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	shifts, err = ListShifts(ctx, store, testLogger(), db.ShiftFilter{DateFrom: "2026-03-01"})
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestListShifts_InvalidFilter(t *testing.T) {
	store := seededStore()

	_, err := ListShifts(context.Background(), store, testLogger(), db.ShiftFilter{
		Statuses: []model.ShiftStatus{"SORT_OF_OPEN"},
		DateFrom: "March 1st",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "statuses")
	assert.Contains(t, vErr.FieldErrors, "dateFrom")
}

func TestComputeCounts_ShadowRolesExcludedFromMinimum(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true) // min 2
	ctx := context.Background()

	signUpWithRole := func(user, role string) {
		_, err := CreateRSVP(ctx, store, store, &recordingDispatcher{}, testLogger(),
			model.Actor{UserID: user}, model.Settings{AutoConfirmRSVP: true},
			CreateRSVPInput{ShiftID: shift.ID, QualifiedRoleID: role}, fixedNow)
		require.NoError(t, err)
	}

	signUpWithRole("a", "steward") // counts toward minimum
	signUpWithRole("b", "trainee") // shadow role

	counts, err := ComputeCounts(ctx, store, store, testLogger(), shift.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, counts.Confirmed)
	assert.Equal(t, 1, counts.CountingConfirmed)
	assert.False(t, counts.MinimumMet, "A shadow role must not satisfy minimum staffing")
	assert.Equal(t, 4, counts.SpotsLeft, "Shadow roles still consume capacity")

	signUpWithRole("c", "steward")
	counts, err = ComputeCounts(ctx, store, store, testLogger(), shift.ID)
	require.NoError(t, err)
	assert.True(t, counts.MinimumMet)
}

func TestComputeCounts_RolelessSignUpsCount(t *testing.T) {
	store := seededStore()
	shift := mustCreateShift(store, true) // min 2
	ctx := context.Background()

	mustSignUp(store, shift.ID, "a", model.Settings{AutoConfirmRSVP: true})
	mustSignUp(store, shift.ID, "b", model.Settings{AutoConfirmRSVP: true})

	counts, err := ComputeCounts(ctx, store, store, testLogger(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.CountingConfirmed)
	assert.True(t, counts.MinimumMet)
}

func TestComputeCounts_NotFound(t *testing.T) {
	store := seededStore()

	_, err := ComputeCounts(context.Background(), store, store, testLogger(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
