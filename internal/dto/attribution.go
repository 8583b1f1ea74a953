package dto

import (
	"time"

	"github.com/noah-isme/edt-api/internal/models"
)

// CreateAttributionRequest books a professor and room for one slot outside any schedule.
type CreateAttributionRequest struct {
	ProfessorID string `json:"professorId" validate:"required"`
	RoomID      string `json:"roomId" validate:"required"`
	CourseID    string `json:"courseId" validate:"required"`
	ProgramID   string `json:"programId" validate:"required"`
	Group       int    `json:"group" validate:"required,min=1"`
	Day         string `json:"day" validate:"required,weekday"`
	TimeSlot    string `json:"timeslot" validate:"required,timeslot"`
}

// AttributionView exposes an attribution with its read-time expiry state.
type AttributionView struct {
	models.TemporaryAttribution
	IsExpired     bool `json:"isExpired"`
	DaysRemaining int  `json:"daysRemaining"`
}

// NewAttributionView computes the expiry fields at now.
func NewAttributionView(a models.TemporaryAttribution, now time.Time) AttributionView {
	return AttributionView{
		TemporaryAttribution: a,
		IsExpired:            a.IsExpired(now),
		DaysRemaining:        a.DaysRemaining(now),
	}
}

// SweepResult reports how many expired attributions were purged.
type SweepResult struct {
	Deleted int64     `json:"deleted"`
	At      time.Time `json:"at"`
}
