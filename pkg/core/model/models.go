package model

import (
	"fmt"
	"time"
)

// ShiftStatus is the lifecycle status of a shift
type ShiftStatus string

const (
	ShiftDraft      ShiftStatus = "DRAFT"
	ShiftPublished  ShiftStatus = "PUBLISHED"
	ShiftInProgress ShiftStatus = "IN_PROGRESS"
	ShiftCompleted  ShiftStatus = "COMPLETED"
	ShiftCancelled  ShiftStatus = "CANCELLED"
)

func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftDraft, ShiftPublished, ShiftInProgress, ShiftCompleted, ShiftCancelled:
		return true
	}
	return false
}

// RSVPStatus is the lifecycle status of a sign-up
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "PENDING"
	RSVPConfirmed RSVPStatus = "CONFIRMED"
	RSVPDeclined  RSVPStatus = "DECLINED"
	RSVPNoShow    RSVPStatus = "NO_SHOW"
)

func (s RSVPStatus) IsValid() bool {
	switch s {
	case RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPNoShow:
		return true
	}
	return false
}

// Shift represents a scheduled time window requiring a bounded number of volunteers.
// Version is bumped by the store on every committed write and backs the
// optimistic concurrency check on capacity-affecting operations.
type Shift struct {
	ID              string
	ZoneID          string
	ShiftTypeID     string
	Date            string // Date format (2006-01-02)
	StartTime       string // Clock format (15:04)
	EndTime         string // Clock format (15:04)
	MinVolunteers   int
	IdealVolunteers int
	MaxVolunteers   int
	Status          ShiftStatus
	CreatedBy       string
	CancelReason    string
	Version         int
}

// RSVP represents a user's sign-up record against a shift.
// Records are retained indefinitely for audit, even after decline or
// shift cancellation.
type RSVP struct {
	ID              string
	ShiftID         string
	UserID          string
	QualifiedRoleID string // Empty string if no role
	IsZoneLead      bool
	Status          RSVPStatus
	CheckInAt       *time.Time
	CheckOutAt      *time.Time
}

// Active reports whether the RSVP still occupies its (user, shift) slot.
// Declined sign-ups are historical; every other status blocks a duplicate.
func (r RSVP) Active() bool {
	return r.Status != RSVPDeclined
}

// QualifiedRole is reference data owned by the catalog collaborator
type QualifiedRole struct {
	ID                  string
	Slug                string
	CountsTowardMinimum bool
}

// Zone is reference data owned by the catalog collaborator
type Zone struct {
	ID   string
	Name string
}

// ShiftType is reference data owned by the catalog collaborator
type ShiftType struct {
	ID   string
	Name string
}

// Actor is the caller-supplied identity context. Sessions are resolved
// upstream; the engine only reads the capability values it needs.
type Actor struct {
	UserID             string
	Coordinator        bool
	QualificationSlugs []string
}

// SchedulingMode controls who may create sign-ups
type SchedulingMode string

const (
	// SchedulingOpen lets volunteers sign themselves up for published shifts
	SchedulingOpen SchedulingMode = "open"
	// SchedulingManaged restricts sign-up creation to coordinators
	SchedulingManaged SchedulingMode = "managed"
)

func (m SchedulingMode) IsValid() bool {
	return m == SchedulingOpen || m == SchedulingManaged
}

// Settings carries the organisational policy flags for a single call.
// They are passed per call rather than held as engine state so tests can
// vary them per case.
type Settings struct {
	AutoConfirmRSVP bool
	SchedulingMode  SchedulingMode
	AllowPastShifts bool
}

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// ParseDate parses a shift date in the engine's canonical format
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// ParseClock parses a shift start/end time in the engine's canonical format
func ParseClock(clock string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return t, nil
}

// DatePassed reports whether the shift's date is strictly before the day
// containing now. A shift on today's date has not passed.
func (s Shift) DatePassed(now time.Time) bool {
	if _, err := ParseDate(s.Date); err != nil {
		// Unparseable dates are treated as passed so frozen-edit and
		// sign-up checks fail closed.
		return true
	}
	// ISO dates compare lexicographically
	return s.Date < now.Format(DateFormat)
}
