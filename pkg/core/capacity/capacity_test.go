package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harbourwatch/scheduler/pkg/core/model"
)

func rsvp(status model.RSVPStatus, role string) model.RSVP {
	return model.RSVP{Status: status, QualifiedRoleID: role}
}

func TestCompute_PendingReservesSlot(t *testing.T) {
	shift := model.Shift{MinVolunteers: 2, IdealVolunteers: 4, MaxVolunteers: 6}
	rsvps := []model.RSVP{
		rsvp(model.RSVPConfirmed, ""),
		rsvp(model.RSVPConfirmed, ""),
		rsvp(model.RSVPPending, ""),
	}

	c := Compute(shift, rsvps, nil)
	assert.Equal(t, 2, c.Confirmed)
	assert.Equal(t, 1, c.Pending)
	assert.Equal(t, 3, c.SpotsLeft)
	assert.True(t, c.MinimumMet)
}

func TestCompute_DeclinedAndNoShowDoNotConsume(t *testing.T) {
	shift := model.Shift{MinVolunteers: 1, MaxVolunteers: 2}
	rsvps := []model.RSVP{
		rsvp(model.RSVPDeclined, ""),
		rsvp(model.RSVPNoShow, ""),
		rsvp(model.RSVPConfirmed, ""),
	}

	c := Compute(shift, rsvps, nil)
	assert.Equal(t, 1, c.Confirmed)
	assert.Equal(t, 0, c.Pending)
	assert.Equal(t, 1, c.SpotsLeft)
	assert.True(t, c.MinimumMet)
}

func TestCompute_SpotsLeftClampedAtZero(t *testing.T) {
	// Capacity lowered after admission; the overage must not go negative
	shift := model.Shift{MaxVolunteers: 1}
	rsvps := []model.RSVP{
		rsvp(model.RSVPConfirmed, ""),
		rsvp(model.RSVPConfirmed, ""),
	}

	c := Compute(shift, rsvps, nil)
	assert.Equal(t, 0, c.SpotsLeft)
}

func TestCompute_ShadowRolesExcludedFromMinimum(t *testing.T) {
	shift := model.Shift{MinVolunteers: 2, MaxVolunteers: 6}
	counting := Snapshot(map[string]bool{"steward": true, "trainee": false})

	rsvps := []model.RSVP{
		rsvp(model.RSVPConfirmed, "steward"),
		rsvp(model.RSVPConfirmed, "trainee"),
	}

	c := Compute(shift, rsvps, counting)
	assert.Equal(t, 2, c.Confirmed)
	assert.Equal(t, 1, c.CountingConfirmed)
	assert.False(t, c.MinimumMet, "min 2 with one counting and one shadow confirmed is not met")
	assert.Equal(t, 4, c.SpotsLeft, "Shadow sign-ups still consume capacity")
}

func TestCompute_RolelessAlwaysCounts(t *testing.T) {
	shift := model.Shift{MinVolunteers: 1, MaxVolunteers: 6}
	counting := Snapshot(map[string]bool{"trainee": false})

	c := Compute(shift, []model.RSVP{rsvp(model.RSVPConfirmed, "")}, counting)
	assert.Equal(t, 1, c.CountingConfirmed)
	assert.True(t, c.MinimumMet)
}

func TestCompute_PendingDoesNotSatisfyMinimum(t *testing.T) {
	shift := model.Shift{MinVolunteers: 1, MaxVolunteers: 6}

	c := Compute(shift, []model.RSVP{rsvp(model.RSVPPending, "")}, nil)
	assert.False(t, c.MinimumMet, "Only confirmed sign-ups satisfy minimum staffing")
}

func TestCompute_EmptyShift(t *testing.T) {
	shift := model.Shift{MinVolunteers: 0, MaxVolunteers: 6}

	c := Compute(shift, nil, nil)
	assert.Equal(t, 6, c.SpotsLeft)
	assert.True(t, c.MinimumMet, "A zero minimum is met by an empty roster")
}

func TestSnapshot_MissingRolesCountByDefault(t *testing.T) {
	counting := Snapshot(map[string]bool{"trainee": false})

	assert.True(t, counting("steward"))
	assert.False(t, counting("trainee"))
}
