package dto

import (
	"time"

	"github.com/noah-isme/edt-api/internal/models"
)

// GenerateScheduleRequest asks for one group's timetable to be rebuilt.
type GenerateScheduleRequest struct {
	ProgramID string `json:"programId" validate:"required"`
	Group     int    `json:"group" validate:"required,min=1"`
}

// GenerateAllRequest rebuilds every group of a program in one occupancy run.
type GenerateAllRequest struct {
	ProgramID string `json:"programId" validate:"required"`
}

// GenerateScheduleResponse returns the persisted schedule with its conflicts. A
// successful response can still carry conflicts for courses that got no slot.
type GenerateScheduleResponse struct {
	Schedule       ScheduleView `json:"schedule"`
	Conflicts      []string     `json:"conflicts"`
	TotalSessions  int          `json:"totalSessions"`
	TotalConflicts int          `json:"totalConflicts"`
}

// SlotRequest addresses one cell of the weekly grid.
type SlotRequest struct {
	Day      string `json:"day" form:"day" validate:"required,weekday"`
	TimeSlot string `json:"timeslot" form:"timeslot" validate:"required,timeslot"`
}

// Key converts the request into a grid key.
func (s SlotRequest) Key() models.SlotKey {
	return models.SlotKey{Day: models.Day(s.Day), TimeSlot: models.TimeSlot(s.TimeSlot)}
}

// SessionRequest describes a manually placed session.
type SessionRequest struct {
	CourseID    string `json:"courseId" validate:"required"`
	ProfessorID string `json:"professorId" validate:"required"`
	RoomID      string `json:"roomId" validate:"required"`
	Day         string `json:"day" validate:"required,weekday"`
	TimeSlot    string `json:"timeslot" validate:"required,timeslot"`
}

// ToModel converts the request into a session.
func (r SessionRequest) ToModel() models.Session {
	return models.Session{
		CourseID:    r.CourseID,
		ProfessorID: r.ProfessorID,
		RoomID:      r.RoomID,
		Day:         models.Day(r.Day),
		TimeSlot:    models.TimeSlot(r.TimeSlot),
	}
}

// ModifySessionRequest replaces the session found at From.
type ModifySessionRequest struct {
	From    SlotRequest    `json:"from"`
	Session SessionRequest `json:"session"`
}

// MoveSessionRequest relocates a session, optionally swapping with the occupant of To.
type MoveSessionRequest struct {
	From SlotRequest `json:"from"`
	To   SlotRequest `json:"to"`
	Swap bool        `json:"swap"`
}

// ScheduleQuery filters schedule listings.
type ScheduleQuery struct {
	ProgramID string `form:"programId" json:"programId"`
	Group     int    `form:"group" json:"group" validate:"min=0"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" json:"format" validate:"omitempty,oneof=pdf csv"`
}

// ResourceRef names a resolved course or professor.
type ResourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomRef names a resolved room.
type RoomRef struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type models.RoomType `json:"type"`
}

// SessionView is a session with its references resolved.
type SessionView struct {
	Day       models.Day      `json:"day"`
	TimeSlot  models.TimeSlot `json:"timeslot"`
	Course    ResourceRef     `json:"course"`
	Professor ResourceRef     `json:"professor"`
	Room      RoomRef         `json:"room"`
}

// ScheduleView is a schedule as returned to clients, sessions ordered by day then slot.
type ScheduleView struct {
	ID          string        `json:"id"`
	ProgramID   string        `json:"programId"`
	ProgramName string        `json:"programName"`
	Group       int           `json:"group"`
	Sessions    []SessionView `json:"sessions"`
	Conflicts   []string      `json:"conflicts"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
