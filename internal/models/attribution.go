package models

import (
	"math"
	"time"
)

// TemporaryAttribution binds a professor and room to a course slot outside any schedule
// until ExpiresAt. It is never merged into a Schedule.
type TemporaryAttribution struct {
	ID          string    `db:"id" json:"id"`
	ProfessorID string    `db:"professor_id" json:"professorId"`
	RoomID      string    `db:"room_id" json:"roomId"`
	CourseID    string    `db:"course_id" json:"courseId"`
	ProgramID   string    `db:"program_id" json:"programId"`
	GroupNumber int       `db:"group_number" json:"group"`
	Day         Day       `db:"day" json:"day"`
	TimeSlot    TimeSlot  `db:"time_slot" json:"timeslot"`
	ExpiresAt   time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// IsExpired reports whether now is past ExpiresAt.
func (a TemporaryAttribution) IsExpired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// DaysRemaining rounds the time left up to whole days, never below zero.
func (a TemporaryAttribution) DaysRemaining(now time.Time) int {
	left := a.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}
