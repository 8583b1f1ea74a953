package scheduler

import "github.com/noah-isme/edt-api/internal/models"

// Scope selects which occupancy a candidate is checked against.
type Scope int

const (
	// ScopeSingle checks the group's own timeline: one session per (day, timeslot).
	ScopeSingle Scope = iota
	// ScopeGlobal checks professor and room double-booking across the supplied sessions.
	ScopeGlobal
)

// WouldConflict reports whether placing candidate next to existing breaks the rule of scope.
//
// Global occupancy only covers the sessions handed in. During generation that is the
// run in progress (plus any seeded sessions); other persisted schedules are not consulted
// unless the caller seeds them.
func WouldConflict(candidate models.Session, existing models.Sessions, scope Scope) bool {
	key := candidate.Key()
	for _, session := range existing {
		if session.Key() != key {
			continue
		}
		switch scope {
		case ScopeSingle:
			return true
		case ScopeGlobal:
			if session.ProfessorID == candidate.ProfessorID || session.RoomID == candidate.RoomID {
				return true
			}
		}
	}
	return false
}

// ProfessorBusy reports whether professorID already teaches at key within sessions.
func ProfessorBusy(sessions models.Sessions, professorID string, key models.SlotKey) bool {
	for _, session := range sessions {
		if session.ProfessorID == professorID && session.Key() == key {
			return true
		}
	}
	return false
}

// RoomBusy reports whether roomID already hosts a session at key within sessions.
func RoomBusy(sessions models.Sessions, roomID string, key models.SlotKey) bool {
	for _, session := range sessions {
		if session.RoomID == roomID && session.Key() == key {
			return true
		}
	}
	return false
}
