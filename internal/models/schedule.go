package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

// Session is one placed course: who teaches it, where and when.
type Session struct {
	CourseID    string   `json:"courseId"`
	ProfessorID string   `json:"professorId"`
	RoomID      string   `json:"roomId"`
	Day         Day      `json:"day"`
	TimeSlot    TimeSlot `json:"timeslot"`
}

// Key returns the grid cell occupied by the session.
func (s Session) Key() SlotKey {
	return SlotKey{Day: s.Day, TimeSlot: s.TimeSlot}
}

// Sessions is the JSONB-backed session list of a schedule.
type Sessions []Session

// Find returns the index of the session at key, or -1.
func (s Sessions) Find(key SlotKey) int {
	for i, session := range s {
		if session.Key() == key {
			return i
		}
	}
	return -1
}

// Sorted returns a copy ordered by day then timeslot.
func (s Sessions) Sorted() Sessions {
	out := make(Sessions, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out
}

// Value implements driver.Valuer.
func (s Sessions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *Sessions) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Sessions{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan sessions: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*s = Sessions{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Schedule is the timetable of one (program, group) pair.
type Schedule struct {
	ID          string         `db:"id" json:"id"`
	ProgramID   string         `db:"program_id" json:"programId"`
	GroupNumber int            `db:"group_number" json:"group"`
	Sessions    Sessions       `db:"sessions" json:"sessions"`
	Conflicts   pq.StringArray `db:"conflicts" json:"conflicts"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	ProgramID   string
	GroupNumber int
}
