package domain

import "time"

// Technician is a service provider linked one-to-one with a User of role technician.
type Technician struct {
	ID             string
	UserID         string
	Location       string
	AvailableSlots []string
	ServiceFee     float64
	CreatedAt      time.Time
}

// HasSlot reports whether the technician advertises the given time-slot label.
func (t *Technician) HasSlot(slot string) bool {
	for _, s := range t.AvailableSlots {
		if s == slot {
			return true
		}
	}
	return false
}
