package dto

import "github.com/noah-isme/edt-api/internal/models"

// Resource kinds accepted by the free-slot filter.
const (
	ResourceProfessor = "professor"
	ResourceRoom      = "room"
)

// FreeSlotQuery narrows the analysis. Empty fields do not filter.
type FreeSlotQuery struct {
	Day      string `form:"day" json:"day" validate:"omitempty,weekday"`
	TimeSlot string `form:"timeslot" json:"timeslot" validate:"omitempty,timeslot"`
	Type     string `form:"type" json:"type" validate:"omitempty,oneof=professor room"`
}

// ResourceFreeSlots is one professor or room with the slots it can be booked on.
type ResourceFreeSlots struct {
	ID             string                    `json:"id"`
	Name           string                    `json:"name"`
	Kind           string                    `json:"kind"`
	RoomType       models.RoomType           `json:"roomType,omitempty"`
	TotalFreeSlots int                       `json:"totalFreeSlots"`
	Slots          []models.AvailabilityEntry `json:"slots"`
}

// SlotUtilization is the share of resources not available at a grid cell.
type SlotUtilization struct {
	Day        models.Day      `json:"day"`
	TimeSlot   models.TimeSlot `json:"timeslot"`
	Free       int             `json:"free"`
	Occupied   int             `json:"occupied"`
	Percentage float64         `json:"percentage"`
}

// FreeSlotReport aggregates availability across the catalog. It reads availability only
// and does not cross-check persisted schedules.
type FreeSlotReport struct {
	Professors    []ResourceFreeSlots `json:"professors"`
	Rooms         []ResourceFreeSlots `json:"rooms"`
	Utilization   []SlotUtilization   `json:"utilization"`
	MostAvailable []ResourceFreeSlots `json:"mostAvailable"`
}
