package scheduler

import (
	"errors"

	"github.com/noah-isme/edt-api/internal/models"
)

var (
	// ErrSlotOccupied is returned when the target (day, timeslot) already holds a session.
	ErrSlotOccupied = errors.New("slot already occupied")
	// ErrSessionNotFound is returned when no session sits at the referenced key.
	ErrSessionNotFound = errors.New("session not found")
)

// AddSession appends session unless the group already attends something at its slot.
func AddSession(sessions models.Sessions, session models.Session) (models.Sessions, error) {
	if WouldConflict(session, sessions, ScopeSingle) {
		return sessions, ErrSlotOccupied
	}
	out := make(models.Sessions, 0, len(sessions)+1)
	out = append(out, sessions...)
	return append(out, session), nil
}

// ModifySession replaces the session at oldKey with updated. When updated moves to a
// different slot, that slot must be free within the schedule.
func ModifySession(sessions models.Sessions, oldKey models.SlotKey, updated models.Session) (models.Sessions, error) {
	idx := sessions.Find(oldKey)
	if idx < 0 {
		return sessions, ErrSessionNotFound
	}
	if updated.Key() != oldKey {
		if dest := sessions.Find(updated.Key()); dest >= 0 && dest != idx {
			return sessions, ErrSlotOccupied
		}
	}
	out := make(models.Sessions, len(sessions))
	copy(out, sessions)
	out[idx] = updated
	return out, nil
}

// DeleteSession removes whatever sits at key. Deleting an empty slot is a no-op.
func DeleteSession(sessions models.Sessions, key models.SlotKey) models.Sessions {
	out := make(models.Sessions, 0, len(sessions))
	for _, s := range sessions {
		if s.Key() == key {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MoveSession relocates the session at from to the slot to. An occupied destination
// fails with ErrSlotOccupied unless swap is set, in which case the two sessions trade
// places.
func MoveSession(sessions models.Sessions, from, to models.SlotKey, swap bool) (models.Sessions, error) {
	src := sessions.Find(from)
	if src < 0 {
		return sessions, ErrSessionNotFound
	}
	if from == to {
		return sessions, nil
	}
	moving := sessions[src]
	dst := sessions.Find(to)
	if dst >= 0 && !swap {
		return sessions, ErrSlotOccupied
	}

	out := DeleteSession(sessions, from)
	if dst >= 0 {
		other := sessions[dst]
		out = DeleteSession(out, to)
		other.Day, other.TimeSlot = from.Day, from.TimeSlot
		out = append(out, other)
	}
	moving.Day, moving.TimeSlot = to.Day, to.TimeSlot
	return AddSession(out, moving)
}
