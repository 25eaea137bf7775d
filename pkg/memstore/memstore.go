// Package memstore is an in-memory implementation of the db.Store and
// db.Catalog interfaces. It backs the engine's tests and the CLI's demo
// mode; the Postgres store is the production backend.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/harbourwatch/scheduler/pkg/core/model"
	"github.com/harbourwatch/scheduler/pkg/db"
)

// Store holds all records behind one mutex. The mutex spans whole shift
// transactions, which gives the serializable isolation the engine's
// admission checks rely on.
type Store struct {
	mu         sync.Mutex
	shifts     map[string]model.Shift
	rsvps      map[string]model.RSVP
	zones      map[string]model.Zone
	shiftTypes map[string]model.ShiftType
	roles      map[string]model.QualifiedRole
}

// New creates an empty store
func New() *Store {
	return &Store{
		shifts:     make(map[string]model.Shift),
		rsvps:      make(map[string]model.RSVP),
		zones:      make(map[string]model.Zone),
		shiftTypes: make(map[string]model.ShiftType),
		roles:      make(map[string]model.QualifiedRole),
	}
}

// SeedZone registers reference data normally owned by the catalog collaborator
func (s *Store) SeedZone(zone model.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[zone.ID] = zone
}

// SeedShiftType registers reference data normally owned by the catalog collaborator
func (s *Store) SeedShiftType(st model.ShiftType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shiftTypes[st.ID] = st
}

// SeedQualifiedRole registers reference data normally owned by the catalog collaborator
func (s *Store) SeedQualifiedRole(role model.QualifiedRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.ID] = role
}

func (s *Store) InsertShift(ctx context.Context, shift model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shifts[shift.ID]; exists {
		return fmt.Errorf("shift %s: %w", shift.ID, db.ErrDuplicate)
	}
	shift.Version = 1
	s.shifts[shift.ID] = shift
	return nil
}

func (s *Store) GetShift(ctx context.Context, id string) (model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[id]
	if !ok {
		return model.Shift{}, fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
	}
	return shift, nil
}

func (s *Store) UpdateShift(ctx context.Context, shift model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.shifts[shift.ID]
	if !ok {
		return fmt.Errorf("shift %s: %w", shift.ID, db.ErrNotFound)
	}
	if current.Version != shift.Version {
		return fmt.Errorf("shift %s version %d != %d: %w",
			shift.ID, shift.Version, current.Version, db.ErrWriteConflict)
	}
	shift.Version++
	s.shifts[shift.ID] = shift
	return nil
}

func (s *Store) ListShifts(ctx context.Context, filter db.ShiftFilter) ([]model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Shift
	for _, shift := range s.shifts {
		if matchesFilter(shift, filter) {
			out = append(out, shift)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matchesFilter(shift model.Shift, filter db.ShiftFilter) bool {
	if filter.ZoneID != "" && shift.ZoneID != filter.ZoneID {
		return false
	}
	if filter.ShiftTypeID != "" && shift.ShiftTypeID != filter.ShiftTypeID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if shift.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.DateFrom != "" && shift.Date < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && shift.Date > filter.DateTo {
		return false
	}
	return true
}

func (s *Store) GetRSVP(ctx context.Context, id string) (model.RSVP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rsvp, ok := s.rsvps[id]
	if !ok {
		return model.RSVP{}, fmt.Errorf("rsvp %s: %w", id, db.ErrNotFound)
	}
	return rsvp, nil
}

func (s *Store) ListShiftRSVPs(ctx context.Context, shiftID string) ([]model.RSVP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shiftRSVPsLocked(shiftID), nil
}

func (s *Store) shiftRSVPsLocked(shiftID string) []model.RSVP {
	var out []model.RSVP
	for _, rsvp := range s.rsvps {
		if rsvp.ShiftID == shiftID {
			out = append(out, rsvp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InShiftTx runs fn against a staged view of one shift. The store mutex is
// held for the whole transaction, so commits never race; the version bump is
// kept anyway so the two backends behave identically.
func (s *Store) InShiftTx(ctx context.Context, shiftID string, fn func(tx db.ShiftTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, ok := s.shifts[shiftID]
	if !ok {
		return fmt.Errorf("shift %s: %w", shiftID, db.ErrNotFound)
	}

	tx := &shiftTx{
		store:   s,
		shiftID: shiftID,
		shift:   shift,
		staged:  make(map[string]model.RSVP),
	}
	if err := fn(tx); err != nil {
		return err
	}

	// Commit
	for id, rsvp := range tx.staged {
		s.rsvps[id] = rsvp
	}
	tx.shift.Version++
	s.shifts[shiftID] = tx.shift
	return nil
}

// shiftTx stages writes until the transaction function returns nil
type shiftTx struct {
	store   *Store
	shiftID string
	shift   model.Shift
	staged  map[string]model.RSVP
}

func (tx *shiftTx) Shift(ctx context.Context) (model.Shift, error) {
	return tx.shift, nil
}

func (tx *shiftTx) RSVPs(ctx context.Context) ([]model.RSVP, error) {
	base := tx.store.shiftRSVPsLocked(tx.shiftID)
	seen := make(map[string]bool, len(base))
	for i, rsvp := range base {
		if staged, ok := tx.staged[rsvp.ID]; ok {
			base[i] = staged
		}
		seen[rsvp.ID] = true
	}
	for id, rsvp := range tx.staged {
		if !seen[id] {
			base = append(base, rsvp)
		}
	}
	sort.Slice(base, func(i, j int) bool { return base[i].ID < base[j].ID })
	return base, nil
}

func (tx *shiftTx) InsertRSVP(ctx context.Context, rsvp model.RSVP) error {
	if _, exists := tx.store.rsvps[rsvp.ID]; exists {
		return fmt.Errorf("rsvp %s: %w", rsvp.ID, db.ErrDuplicate)
	}
	if _, exists := tx.staged[rsvp.ID]; exists {
		return fmt.Errorf("rsvp %s: %w", rsvp.ID, db.ErrDuplicate)
	}
	tx.staged[rsvp.ID] = rsvp
	return nil
}

func (tx *shiftTx) UpdateRSVP(ctx context.Context, rsvp model.RSVP) error {
	_, stagedExists := tx.staged[rsvp.ID]
	_, storedExists := tx.store.rsvps[rsvp.ID]
	if !stagedExists && !storedExists {
		return fmt.Errorf("rsvp %s: %w", rsvp.ID, db.ErrNotFound)
	}
	tx.staged[rsvp.ID] = rsvp
	return nil
}

func (tx *shiftTx) UpdateShift(ctx context.Context, shift model.Shift) error {
	if shift.ID != tx.shiftID {
		return fmt.Errorf("shift %s is outside this transaction: %w", shift.ID, db.ErrNotFound)
	}
	version := tx.shift.Version
	tx.shift = shift
	tx.shift.Version = version // the commit bumps it
	return nil
}

// Catalog view

func (s *Store) GetZone(ctx context.Context, id string) (model.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zone, ok := s.zones[id]
	if !ok {
		return model.Zone{}, fmt.Errorf("zone %s: %w", id, db.ErrNotFound)
	}
	return zone, nil
}

func (s *Store) GetShiftType(ctx context.Context, id string) (model.ShiftType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.shiftTypes[id]
	if !ok {
		return model.ShiftType{}, fmt.Errorf("shift type %s: %w", id, db.ErrNotFound)
	}
	return st, nil
}

func (s *Store) GetQualifiedRole(ctx context.Context, id string) (model.QualifiedRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[id]
	if !ok {
		return model.QualifiedRole{}, fmt.Errorf("qualified role %s: %w", id, db.ErrNotFound)
	}
	return role, nil
}

func (s *Store) RoleCounting(ctx context.Context) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]bool, len(s.roles))
	for id, role := range s.roles {
		snapshot[id] = role.CountsTowardMinimum
	}
	return snapshot, nil
}
