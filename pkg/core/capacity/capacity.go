// Package capacity derives live staffing counts for a shift from its RSVP
// set. It is pure: callers are responsible for reading the shift and its
// RSVPs inside the same transactional boundary as any admission decision.
package capacity

import "github.com/harbourwatch/scheduler/pkg/core/model"

// Counts are the live staffing numbers for one shift
type Counts struct {
	Confirmed         int
	Pending           int
	CountingConfirmed int
	SpotsLeft         int
	MinimumMet        bool
}

// RoleCounting reports whether a qualified role counts toward a shift's
// minimum-staffing requirement. RSVPs without a role always count.
type RoleCounting func(roleID string) bool

// Compute derives the counts for a shift. Pending sign-ups reserve a slot:
// spotsLeft = max(0, maxVolunteers - (confirmed + pending)). Shadow roles
// (countsTowardMinimum = false) are admitted against capacity but excluded
// from the minimum-met check.
func Compute(shift model.Shift, rsvps []model.RSVP, counting RoleCounting) Counts {
	var c Counts
	for _, r := range rsvps {
		switch r.Status {
		case model.RSVPPending:
			c.Pending++
		case model.RSVPConfirmed:
			c.Confirmed++
			if r.QualifiedRoleID == "" || counting == nil || counting(r.QualifiedRoleID) {
				c.CountingConfirmed++
			}
		}
	}
	c.SpotsLeft = shift.MaxVolunteers - (c.Confirmed + c.Pending)
	if c.SpotsLeft < 0 {
		c.SpotsLeft = 0
	}
	c.MinimumMet = c.CountingConfirmed >= shift.MinVolunteers
	return c
}

// Snapshot adapts a roleID -> countsTowardMinimum map, as supplied by the
// catalog collaborator, into a RoleCounting lookup. Roles missing from the
// snapshot count by default.
func Snapshot(counts map[string]bool) RoleCounting {
	return func(roleID string) bool {
		counting, ok := counts[roleID]
		if !ok {
			return true
		}
		return counting
	}
}
