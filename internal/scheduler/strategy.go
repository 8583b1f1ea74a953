package scheduler

import (
	"fmt"
	"strings"

	"github.com/noah-isme/edt-api/internal/models"
)

// ConflictReason classifies why a course could not be placed.
type ConflictReason string

const (
	ReasonInsufficientResources ConflictReason = "INSUFFICIENT_RESOURCES"
	ReasonNoFreeSlot            ConflictReason = "NO_FREE_SLOT"
)

// Conflict describes a course the strategy gave up on.
type Conflict struct {
	CourseID string         `json:"courseId"`
	Course   string         `json:"course"`
	Reason   ConflictReason `json:"reason"`
	Message  string         `json:"message"`
}

func newConflict(course models.Course, reason ConflictReason) *Conflict {
	var detail string
	switch reason {
	case ReasonInsufficientResources:
		detail = "insufficient resources"
	default:
		detail = "no free slot found"
	}
	return &Conflict{
		CourseID: course.ID,
		Course:   course.Name,
		Reason:   reason,
		Message:  fmt.Sprintf("cannot attribute course %s: %s", course.Name, detail),
	}
}

// PlacementStrategy places one course into the run state. Exactly one of the
// returned values is non-nil.
type PlacementStrategy interface {
	PlaceCourse(course models.Course, state *State) (*models.Session, *Conflict)
}

// Greedy is the first-fit strategy: the first (day, timeslot) in grid order where a
// suitable room and an eligible professor are both free wins. It never revisits
// earlier placements.
type Greedy struct{}

// PlaceCourse implements PlacementStrategy.
func (Greedy) PlaceCourse(course models.Course, state *State) (*models.Session, *Conflict) {
	rooms := candidateRooms(state.Rooms, PreferredRoomType(course.Name))
	professors := candidateProfessors(state.Professors, course)
	if len(rooms) == 0 || len(professors) == 0 {
		return nil, newConflict(course, ReasonInsufficientResources)
	}

	for _, day := range models.Days {
		for _, slot := range models.TimeSlots {
			key := models.SlotKey{Day: day, TimeSlot: slot}
			if state.GroupHas(key) {
				continue
			}
			room, ok := firstRoom(state, rooms, key)
			if !ok {
				continue
			}
			professor, ok := firstProfessor(state, professors, key)
			if !ok {
				continue
			}
			session := models.Session{
				CourseID:    course.ID,
				ProfessorID: professor.ID,
				RoomID:      room.ID,
				Day:         day,
				TimeSlot:    slot,
			}
			state.Commit(session)
			return &session, nil
		}
	}
	return nil, newConflict(course, ReasonNoFreeSlot)
}

// PreferredRoomType picks a machine lab for practical sessions ("tp" anywhere in the
// course name, case-insensitive) and an ordinary room otherwise.
func PreferredRoomType(courseName string) models.RoomType {
	if strings.Contains(strings.ToLower(courseName), "tp") {
		return models.RoomMachine
	}
	return models.RoomOrdinaire
}

func candidateRooms(rooms []models.Room, preferred models.RoomType) []models.Room {
	matching := filterRooms(rooms, func(r models.Room) bool {
		return r.Type == preferred && !r.Availability.IsEmpty()
	})
	if len(matching) > 0 {
		return matching
	}
	return filterRooms(rooms, func(r models.Room) bool {
		return !r.Availability.IsEmpty()
	})
}

func candidateProfessors(professors []models.Professor, course models.Course) []models.Professor {
	var out []models.Professor
	for _, p := range professors {
		if course.Eligible(p.ID) && !p.Availability.IsEmpty() {
			out = append(out, p)
		}
	}
	return out
}

func filterRooms(rooms []models.Room, pred func(models.Room) bool) []models.Room {
	var out []models.Room
	for _, r := range rooms {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func firstRoom(state *State, rooms []models.Room, key models.SlotKey) (models.Room, bool) {
	for _, r := range rooms {
		if state.RoomFree(r, key) {
			return r, true
		}
	}
	return models.Room{}, false
}

func firstProfessor(state *State, professors []models.Professor, key models.SlotKey) (models.Professor, bool) {
	for _, p := range professors {
		if state.ProfessorFree(p, key) {
			return p, true
		}
	}
	return models.Professor{}, false
}
