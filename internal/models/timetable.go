package models

import "strings"

// Day is a teaching day of the week. Values are the exact labels stored and exported.
type Day string

const (
	Lundi    Day = "Lundi"
	Mardi    Day = "Mardi"
	Mercredi Day = "Mercredi"
	Jeudi    Day = "Jeudi"
	Vendredi Day = "Vendredi"
	Samedi   Day = "Samedi"
)

// TimeSlot is one of the three fixed daily teaching windows.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "08h30 - 11h30"
	SlotMidday    TimeSlot = "12h00 - 15h00"
	SlotAfternoon TimeSlot = "15h30 - 18h30"
)

// RoomType distinguishes ordinary classrooms from machine labs.
type RoomType string

const (
	RoomOrdinaire RoomType = "Ordinaire"
	RoomMachine   RoomType = "Machine"
)

// Days lists the week in scheduling order.
var Days = []Day{Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi}

// TimeSlots lists the daily windows in scheduling order.
var TimeSlots = []TimeSlot{SlotMorning, SlotMidday, SlotAfternoon}

// Valid reports whether d is part of the fixed vocabulary.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Index returns the zero-based position of d in Days, or -1.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether t is one of the three fixed windows.
func (t TimeSlot) Valid() bool {
	return t.Index() >= 0
}

// Index returns the zero-based position of t in TimeSlots, or -1.
func (t TimeSlot) Index() int {
	for i, slot := range TimeSlots {
		if slot == t {
			return i
		}
	}
	return -1
}

// Valid reports whether r is a known room type.
func (r RoomType) Valid() bool {
	return r == RoomOrdinaire || r == RoomMachine
}

// ParseDay matches a day label case-insensitively.
func ParseDay(raw string) (Day, bool) {
	raw = strings.TrimSpace(raw)
	for _, day := range Days {
		if strings.EqualFold(string(day), raw) {
			return day, true
		}
	}
	return "", false
}

// ParseTimeSlot matches a timeslot label, tolerating surrounding whitespace.
func ParseTimeSlot(raw string) (TimeSlot, bool) {
	raw = strings.TrimSpace(raw)
	for _, slot := range TimeSlots {
		if string(slot) == raw {
			return slot, true
		}
	}
	return "", false
}

// SlotKey identifies a cell of the weekly grid.
type SlotKey struct {
	Day      Day      `json:"day"`
	TimeSlot TimeSlot `json:"timeslot"`
}

// Less orders keys by day then timeslot.
func (k SlotKey) Less(other SlotKey) bool {
	if k.Day != other.Day {
		return k.Day.Index() < other.Day.Index()
	}
	return k.TimeSlot.Index() < other.TimeSlot.Index()
}
