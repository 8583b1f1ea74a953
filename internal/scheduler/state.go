package scheduler

import "github.com/noah-isme/edt-api/internal/models"

// State is the mutable occupancy of one generation run. Catalogs are passed in
// explicitly; the state never reaches for shared caches.
type State struct {
	Professors []models.Professor
	Rooms      []models.Room

	group     models.Sessions
	committed models.Sessions
}

// NewState builds a run state. seed holds sessions that already occupy professors
// and rooms (for instance other groups' persisted schedules) and is never returned
// as part of the group's output.
func NewState(professors []models.Professor, rooms []models.Room, seed models.Sessions) *State {
	committed := make(models.Sessions, len(seed))
	copy(committed, seed)
	return &State{
		Professors: professors,
		Rooms:      rooms,
		committed:  committed,
	}
}

// StartGroup clears the group timeline while keeping professor and room occupancy,
// so consecutive groups of one run cannot double-book a resource.
func (s *State) StartGroup() {
	s.group = nil
}

// GroupSessions returns the sessions placed for the current group.
func (s *State) GroupSessions() models.Sessions {
	out := make(models.Sessions, len(s.group))
	copy(out, s.group)
	return out
}

// GroupHas reports whether the current group already attends a session at key.
func (s *State) GroupHas(key models.SlotKey) bool {
	return s.group.Find(key) >= 0
}

// ProfessorFree reports whether the professor is both available and unbooked at key.
func (s *State) ProfessorFree(p models.Professor, key models.SlotKey) bool {
	return p.Availability.Has(key.Day, key.TimeSlot) && !ProfessorBusy(s.committed, p.ID, key)
}

// RoomFree reports whether the room is both available and unbooked at key.
func (s *State) RoomFree(r models.Room, key models.SlotKey) bool {
	return r.Availability.Has(key.Day, key.TimeSlot) && !RoomBusy(s.committed, r.ID, key)
}

// Commit records session for the current group and the whole run.
func (s *State) Commit(session models.Session) {
	s.group = append(s.group, session)
	s.committed = append(s.committed, session)
}
