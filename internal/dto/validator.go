package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/edt-api/internal/models"
)

// NewValidator returns a validator aware of the timetable vocabulary:
// weekday (Lundi..Samedi), timeslot (the three fixed slots) and roomtype.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterRules(v)
	return v
}

// RegisterRules installs the vocabulary rules on an existing validator.
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.Day(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return models.TimeSlot(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("roomtype", func(fl validator.FieldLevel) bool {
		return models.RoomType(fl.Field().String()).Valid()
	})
}
