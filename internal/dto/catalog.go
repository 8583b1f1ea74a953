package dto

import "github.com/noah-isme/edt-api/internal/models"

// AvailabilityEntryRequest is one day of availability.
type AvailabilityEntryRequest struct {
	Day       string   `json:"day" validate:"required,weekday"`
	TimeSlots []string `json:"timeslots" validate:"dive,timeslot"`
}

// SetAvailabilityRequest replaces a resource's availability. An empty list is legal.
type SetAvailabilityRequest struct {
	Availability []AvailabilityEntryRequest `json:"availability" validate:"dive"`
}

// ToAvailability converts the request into the stored representation, merging repeated days
// and dropping duplicate slots.
func ToAvailability(entries []AvailabilityEntryRequest) models.Availability {
	out := models.Availability{}
	index := make(map[models.Day]int, len(entries))
	for _, entry := range entries {
		day := models.Day(entry.Day)
		pos, ok := index[day]
		if !ok {
			out = append(out, models.AvailabilityEntry{Day: day, TimeSlots: []models.TimeSlot{}})
			pos = len(out) - 1
			index[day] = pos
		}
		for _, raw := range entry.TimeSlots {
			slot := models.TimeSlot(raw)
			if !out.Has(day, slot) {
				out[pos].TimeSlots = append(out[pos].TimeSlots, slot)
			}
		}
	}
	return out
}

// CreateProfessorRequest registers a professor.
type CreateProfessorRequest struct {
	FirstName    string                     `json:"firstName" validate:"required"`
	LastName     string                     `json:"lastName" validate:"required"`
	Email        string                     `json:"email" validate:"required,email"`
	Availability []AvailabilityEntryRequest `json:"availability" validate:"dive"`
}

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	Name         string                     `json:"name" validate:"required"`
	Type         string                     `json:"type" validate:"required,roomtype"`
	Capacity     int                        `json:"capacity" validate:"min=0"`
	Availability []AvailabilityEntryRequest `json:"availability" validate:"dive"`
}

// CreateCourseRequest registers a course under a program.
type CreateCourseRequest struct {
	Name          string   `json:"name" validate:"required"`
	ProgramID     string   `json:"programId" validate:"required"`
	DurationHours int      `json:"durationHours" validate:"min=0"`
	ProfessorIDs  []string `json:"professorIds" validate:"dive,required"`
}

// CreateProgramRequest registers a program and its group count.
type CreateProgramRequest struct {
	Name       string `json:"name" validate:"required"`
	GroupCount int    `json:"groupCount" validate:"required,min=1"`
}

// CourseQuery filters course listings.
type CourseQuery struct {
	ProgramID string `form:"programId" json:"programId"`
}
