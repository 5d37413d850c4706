package model

import "time"

// Vehicle is a shared club vehicle assignable to transport legs.
// AssignedEvents is the denormalized reverse reference list owned by the
// backlink synchronizer; no other component writes it.
type Vehicle struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Seats          int       `json:"seats,omitempty"`
	DailyCost      float64   `json:"daily_cost,omitempty"`
	DriverID       string    `json:"driver_id,omitempty"`
	Maintenance    time.Time `json:"maintenance,omitempty"`
	AssignedEvents []string  `json:"assigned_events,omitempty"`
}

// InMaintenance reports whether a maintenance day is configured.
func (v Vehicle) InMaintenance() bool {
	return !v.Maintenance.IsZero()
}

// EmploymentStatus distinguishes salaried staff from freelance day-rate
// staff.
type EmploymentStatus int

const (
	StatusSalaried EmploymentStatus = iota
	StatusFreelance
)

// String returns a human-readable representation of the status.
func (s EmploymentStatus) String() string {
	switch s {
	case StatusSalaried:
		return "salaried"
	case StatusFreelance:
		return "freelance"
	default:
		return "unknown"
	}
}

// StaffMember is a person assignable to event roles. DailyRate is only
// meaningful for freelance staff. AssignedEvents follows the same ownership
// rule as Vehicle.AssignedEvents.
type StaffMember struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Status         EmploymentStatus `json:"status"`
	DailyRate      float64          `json:"daily_rate,omitempty"`
	AssignedEvents []string         `json:"assigned_events,omitempty"`
}

// Billable reports whether the member generates a derived salary item.
func (s StaffMember) Billable() bool {
	return s.Status == StatusFreelance && s.DailyRate > 0
}
