package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AvailabilityEntry lists the timeslots a resource can be used on one day.
type AvailabilityEntry struct {
	Day       Day        `json:"day"`
	TimeSlots []TimeSlot `json:"timeslots"`
}

// Availability is the full weekly availability of a professor or room.
// It is stored as a JSONB column and always replaced as a whole.
type Availability []AvailabilityEntry

// Has reports whether the resource can be used at (day, slot).
func (a Availability) Has(day Day, slot TimeSlot) bool {
	for _, entry := range a {
		if entry.Day != day {
			continue
		}
		for _, s := range entry.TimeSlots {
			if s == slot {
				return true
			}
		}
	}
	return false
}

// IsEmpty reports whether no slot at all is available.
func (a Availability) IsEmpty() bool {
	return a.SlotCount() == 0
}

// SlotCount sums the timeslots across every entry.
func (a Availability) SlotCount() int {
	total := 0
	for _, entry := range a {
		total += len(entry.TimeSlots)
	}
	return total
}

// Value implements driver.Valuer.
func (a Availability) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Availability) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Availability{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan availability: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*a = Availability{}
		return nil
	}
	return json.Unmarshal(raw, a)
}
