package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harbourwatch/scheduler/pkg/core/model"
)

func TestShiftAllowed(t *testing.T) {
	tests := []struct {
		from    model.ShiftStatus
		to      model.ShiftStatus
		allowed bool
	}{
		{model.ShiftDraft, model.ShiftPublished, true},
		{model.ShiftDraft, model.ShiftCancelled, true},
		{model.ShiftPublished, model.ShiftInProgress, true},
		{model.ShiftPublished, model.ShiftCancelled, true},
		{model.ShiftInProgress, model.ShiftCompleted, true},
		{model.ShiftInProgress, model.ShiftCancelled, true},

		{model.ShiftDraft, model.ShiftInProgress, false},
		{model.ShiftDraft, model.ShiftCompleted, false},
		{model.ShiftPublished, model.ShiftDraft, false},
		{model.ShiftPublished, model.ShiftCompleted, false},
		{model.ShiftCompleted, model.ShiftCancelled, false},
		{model.ShiftCancelled, model.ShiftPublished, false},
		{model.ShiftCancelled, model.ShiftDraft, false},
		{model.ShiftDraft, model.ShiftDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, ShiftAllowed(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestRSVPAllowed(t *testing.T) {
	tests := []struct {
		from    model.RSVPStatus
		to      model.RSVPStatus
		allowed bool
	}{
		{model.RSVPPending, model.RSVPConfirmed, true},
		{model.RSVPPending, model.RSVPDeclined, true},
		{model.RSVPConfirmed, model.RSVPDeclined, true},
		{model.RSVPConfirmed, model.RSVPNoShow, true},

		{model.RSVPPending, model.RSVPNoShow, false},
		{model.RSVPConfirmed, model.RSVPPending, false},
		{model.RSVPDeclined, model.RSVPPending, false},
		{model.RSVPDeclined, model.RSVPConfirmed, false},
		{model.RSVPNoShow, model.RSVPConfirmed, false},
		{model.RSVPNoShow, model.RSVPDeclined, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, RSVPAllowed(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, ShiftTerminal(model.ShiftCompleted))
	assert.True(t, ShiftTerminal(model.ShiftCancelled))
	assert.False(t, ShiftTerminal(model.ShiftDraft))
	assert.False(t, ShiftTerminal(model.ShiftPublished))
	assert.False(t, ShiftTerminal(model.ShiftInProgress))
	assert.False(t, ShiftTerminal(model.ShiftStatus("BOGUS")), "Unknown statuses are not terminal")

	assert.True(t, RSVPTerminal(model.RSVPDeclined))
	assert.True(t, RSVPTerminal(model.RSVPNoShow))
	assert.False(t, RSVPTerminal(model.RSVPPending))
	assert.False(t, RSVPTerminal(model.RSVPConfirmed))
	assert.False(t, RSVPTerminal(model.RSVPStatus("BOGUS")))
}
