// Package transition defines the shift and RSVP state machines.
// Services consult it before every status mutation; no mutation happens here.
package transition

import "github.com/harbourwatch/scheduler/pkg/core/model"

// shiftEdges lists the legal forward edges of the shift machine.
// COMPLETED and CANCELLED are terminal; there are no backward edges.
var shiftEdges = map[model.ShiftStatus][]model.ShiftStatus{
	model.ShiftDraft:      {model.ShiftPublished, model.ShiftCancelled},
	model.ShiftPublished:  {model.ShiftInProgress, model.ShiftCancelled},
	model.ShiftInProgress: {model.ShiftCompleted, model.ShiftCancelled},
}

// rsvpEdges lists the legal edges of the RSVP machine.
// DECLINED and NO_SHOW are terminal.
var rsvpEdges = map[model.RSVPStatus][]model.RSVPStatus{
	model.RSVPPending:   {model.RSVPConfirmed, model.RSVPDeclined},
	model.RSVPConfirmed: {model.RSVPDeclined, model.RSVPNoShow},
}

// ShiftAllowed reports whether a shift may move from one status to another
func ShiftAllowed(from, to model.ShiftStatus) bool {
	for _, next := range shiftEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ShiftTerminal reports whether a shift status admits no further transitions
func ShiftTerminal(s model.ShiftStatus) bool {
	return len(shiftEdges[s]) == 0 && s.IsValid()
}

// RSVPAllowed reports whether a sign-up may move from one status to another
func RSVPAllowed(from, to model.RSVPStatus) bool {
	for _, next := range rsvpEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RSVPTerminal reports whether an RSVP status admits no further transitions
func RSVPTerminal(s model.RSVPStatus) bool {
	return len(rsvpEdges[s]) == 0 && s.IsValid()
}
