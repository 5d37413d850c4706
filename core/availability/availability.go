// Package availability classifies whether a vehicle or staff member can be
// assigned over a candidate date range, given a snapshot of existing
// assignments. Checks are pure: they never mutate the snapshot and never
// fail. An undecidable case reports Available so it cannot block
// unrelated edits.
package availability

import (
	"fmt"

	"github.com/clubops/planner/core/model"
	"github.com/clubops/planner/core/schedule"
)

// State classifies the outcome of an availability check.
type State int

const (
	// Available means nothing blocks the candidate assignment.
	Available State = iota
	// Assigned means an overlapping assignment on another leg or event
	// claims the resource.
	Assigned
	// Maintenance means the vehicle's maintenance day falls inside the
	// candidate range.
	Maintenance
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Available:
		return "available"
	case Assigned:
		return "assigned"
	case Maintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// Status is the result of one check. Reason is a display string;
// ConflictID names the leg or event that claims the resource, when any.
type Status struct {
	State      State  `json:"state"`
	Reason     string `json:"reason,omitempty"`
	ConflictID string `json:"conflict_id,omitempty"`
}

// Free reports whether the resource can be assigned.
func (s Status) Free() bool {
	return s.State == Available
}

// CheckVehicle classifies the vehicle's availability over the candidate
// range. Maintenance wins over assignment conflicts. Legs is the full set
// of legs the vehicle is assigned to across all events; excludeLegID names
// the leg currently being edited so it cannot conflict with itself. A
// candidate range without a start date reports Available.
func CheckVehicle(v model.Vehicle, candidate model.DateRange, legs []model.TransportLeg, excludeLegID string) Status {
	if !candidate.Applicable() {
		return Status{State: Available}
	}
	if v.InMaintenance() && schedule.Overlaps(model.SingleDay(v.Maintenance), candidate) {
		return Status{
			State:  Maintenance,
			Reason: fmt.Sprintf("%s is in maintenance on %s", v.Name, v.Maintenance.Format("2006-01-02")),
		}
	}
	for _, leg := range legs {
		if leg.ID == excludeLegID || leg.VehicleID != v.ID {
			continue
		}
		if schedule.Overlaps(leg.Range(), candidate) {
			return Status{
				State:      Assigned,
				Reason:     fmt.Sprintf("%s is already assigned to a %s leg", v.Name, leg.Direction),
				ConflictID: leg.ID,
			}
		}
	}
	return Status{State: Available}
}

// CheckStaff classifies the staff member's availability for the candidate
// event range. Every other event in which the member fills a role counts;
// excludeEventID names the event being edited.
func CheckStaff(s model.StaffMember, candidate model.DateRange, events []model.Event, excludeEventID string) Status {
	if !candidate.Applicable() {
		return Status{State: Available}
	}
	for _, ev := range events {
		if ev.ID == excludeEventID || !ev.HasStaff(s.ID) {
			continue
		}
		if schedule.Overlaps(ev.Dates, candidate) {
			return Status{
				State:      Assigned,
				Reason:     fmt.Sprintf("%s is already assigned to %s", s.Name, ev.Name),
				ConflictID: ev.ID,
			}
		}
	}
	return Status{State: Available}
}
