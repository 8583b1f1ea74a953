package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Professor is a teaching resource.
type Professor struct {
	ID           string       `db:"id" json:"id"`
	FirstName    string       `db:"first_name" json:"firstName"`
	LastName     string       `db:"last_name" json:"lastName"`
	Email        string       `db:"email" json:"email"`
	Availability Availability `db:"availability" json:"availability"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name.
func (p Professor) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Room is a physical teaching resource.
type Room struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Type         RoomType     `db:"type" json:"type"`
	Capacity     int          `db:"capacity" json:"capacity"`
	Availability Availability `db:"availability" json:"availability"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// Course belongs to one program and may be taught by any of its eligible professors.
type Course struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	ProgramID     string         `db:"program_id" json:"programId"`
	DurationHours int            `db:"duration_hours" json:"durationHours"`
	ProfessorIDs  pq.StringArray `db:"professor_ids" json:"professorIds"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// Eligible reports whether professorID may teach the course.
func (c Course) Eligible(professorID string) bool {
	for _, id := range c.ProfessorIDs {
		if id == professorID {
			return true
		}
	}
	return false
}

// Program fans out into GroupCount independent groups, each with its own schedule.
type Program struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	GroupCount int       `db:"group_count" json:"groupCount"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// HasGroup reports whether group is within 1..GroupCount.
func (p Program) HasGroup(group int) bool {
	return group >= 1 && group <= p.GroupCount
}
