// Package registry holds the per-event assignment state: role-keyed staff
// lists, the selected vehicle list, and the transport legs with their
// vehicle, driver, occupant and stop state. All mutation entry points of
// the engine go through a Registry; derived data (budget, backlinks) is
// recomputed from it after commit.
package registry

import (
	"errors"
	"fmt"

	"github.com/clubops/planner/core/model"
)

// ErrNotFound is returned when an operation names an unknown event, leg,
// stop or resource id.
var ErrNotFound = errors.New("registry: not found")

// Registry is the assignment state of a single event. It is not safe for
// concurrent use; the engine runs a single-writer model and every edit owns
// its own draft copy.
type Registry struct {
	event model.Event
	legs  []model.TransportLeg
}

// New builds a Registry from an event and the legs belonging to it. Legs
// referencing a different event are rejected.
func New(event model.Event, legs []model.TransportLeg) (*Registry, error) {
	r := &Registry{event: cloneEvent(event)}
	for _, leg := range legs {
		if leg.EventID != event.ID {
			return nil, fmt.Errorf("registry: leg %s belongs to event %s, not %s", leg.ID, leg.EventID, event.ID)
		}
		r.legs = append(r.legs, cloneLeg(leg))
	}
	return r, nil
}

// Event returns a copy of the current event state.
func (r *Registry) Event() model.Event {
	return cloneEvent(r.event)
}

// Legs returns a copy of the current leg state, in insertion order.
func (r *Registry) Legs() []model.TransportLeg {
	out := make([]model.TransportLeg, len(r.legs))
	for i, leg := range r.legs {
		out[i] = cloneLeg(leg)
	}
	return out
}

// Leg returns a copy of one leg.
func (r *Registry) Leg(legID string) (model.TransportLeg, error) {
	leg, err := r.leg(legID)
	if err != nil {
		return model.TransportLeg{}, err
	}
	return cloneLeg(*leg), nil
}

// SetRoleAssignment replaces the role's staff list. Duplicates within the
// list are dropped so the flattened staff set stays duplicate-free. An
// empty list removes the role key.
func (r *Registry) SetRoleAssignment(role string, staffIDs []string) {
	if r.event.Roles == nil {
		r.event.Roles = make(map[string][]string)
	}
	seen := make(map[string]bool, len(staffIDs))
	var list []string
	for _, id := range staffIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		list = append(list, id)
	}
	if len(list) == 0 {
		delete(r.event.Roles, role)
		return
	}
	r.event.Roles[role] = list
}

// SelectedStaff returns the flattened union of all role lists.
func (r *Registry) SelectedStaff() []string {
	return r.event.SelectedStaff()
}

// SetVehicleSelection replaces the event's selected vehicle list, dropping
// duplicates while preserving order.
func (r *Registry) SetVehicleSelection(vehicleIDs []string) {
	seen := make(map[string]bool, len(vehicleIDs))
	var list []string
	for _, id := range vehicleIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		list = append(list, id)
	}
	r.event.Vehicles = list
}

// SetLegVehicle assigns the vehicle to the leg. When the vehicle has a
// designated driver and no explicit driver was chosen for the leg, the
// driver defaults to the vehicle's. Passing nil clears the assignment and
// any defaulted driver. The vehicle is also added to the event's selection
// list so the selected-vehicle set stays a superset of the legs' vehicles.
func (r *Registry) SetLegVehicle(legID string, vehicle *model.Vehicle) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		leg.VehicleID = ""
		if !leg.DriverChosen {
			leg.DriverID = ""
		}
		return nil
	}
	leg.VehicleID = vehicle.ID
	if !leg.DriverChosen && vehicle.DriverID != "" {
		leg.DriverID = vehicle.DriverID
	}
	if !r.event.HasVehicle(vehicle.ID) {
		r.event.Vehicles = append(r.event.Vehicles, vehicle.ID)
	}
	return nil
}

// SetLegDriver records an explicit driver choice, which survives later
// vehicle reassignments. An empty id reverts to the defaulting behavior.
func (r *Registry) SetLegDriver(legID, driverID string) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	leg.DriverID = driverID
	leg.DriverChosen = driverID != ""
	return nil
}

// ToggleOccupant inserts the (person, type) pair on the leg if absent and
// removes it if present. The pair is the identity: the same person id may
// ride once as rider and once as staff.
func (r *Registry) ToggleOccupant(legID string, occ model.Occupant) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	leg.Occupants = toggle(leg.Occupants, occ)
	return nil
}

// AddLeg appends a new leg to the event.
func (r *Registry) AddLeg(leg model.TransportLeg) error {
	if leg.EventID == "" {
		leg.EventID = r.event.ID
	}
	if leg.EventID != r.event.ID {
		return fmt.Errorf("registry: leg %s belongs to event %s, not %s", leg.ID, leg.EventID, r.event.ID)
	}
	if _, err := r.leg(leg.ID); err == nil {
		return fmt.Errorf("registry: leg %s already exists", leg.ID)
	}
	r.legs = append(r.legs, cloneLeg(leg))
	return nil
}

// RemoveLeg deletes the leg and its occupant and stop state.
func (r *Registry) RemoveLeg(legID string) error {
	for i, leg := range r.legs {
		if leg.ID == legID {
			r.legs = append(r.legs[:i], r.legs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: leg %s", ErrNotFound, legID)
}

// AddStop appends an intermediate stop to the leg.
func (r *Registry) AddStop(legID string, stop model.Stop) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	for _, cur := range leg.Stops {
		if cur.ID == stop.ID {
			return fmt.Errorf("registry: stop %s already exists on leg %s", stop.ID, legID)
		}
	}
	leg.Stops = append(leg.Stops, stop)
	return nil
}

// RemoveStop deletes the stop from the leg.
func (r *Registry) RemoveStop(legID, stopID string) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	for i, cur := range leg.Stops {
		if cur.ID == stopID {
			leg.Stops = append(leg.Stops[:i], leg.Stops[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: stop %s on leg %s", ErrNotFound, stopID, legID)
}

// UpdateStop applies fn to the stop in place. The stop's id must not
// change.
func (r *Registry) UpdateStop(legID, stopID string, fn func(*model.Stop)) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	for i := range leg.Stops {
		if leg.Stops[i].ID == stopID {
			id := leg.Stops[i].ID
			fn(&leg.Stops[i])
			leg.Stops[i].ID = id
			return nil
		}
	}
	return fmt.Errorf("%w: stop %s on leg %s", ErrNotFound, stopID, legID)
}

// ToggleStopPerson toggles the (person, type) pair on the stop's own
// boarding/alighting list, independent of the leg's occupant list.
func (r *Registry) ToggleStopPerson(legID, stopID string, occ model.Occupant) error {
	leg, err := r.leg(legID)
	if err != nil {
		return err
	}
	for i := range leg.Stops {
		if leg.Stops[i].ID == stopID {
			leg.Stops[i].Persons = toggle(leg.Stops[i].Persons, occ)
			return nil
		}
	}
	return fmt.Errorf("%w: stop %s on leg %s", ErrNotFound, stopID, legID)
}

func (r *Registry) leg(legID string) (*model.TransportLeg, error) {
	for i := range r.legs {
		if r.legs[i].ID == legID {
			return &r.legs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: leg %s", ErrNotFound, legID)
}

func toggle(list []model.Occupant, occ model.Occupant) []model.Occupant {
	for i, cur := range list {
		if cur == occ {
			return append(list[:i], list[i+1:]...)
		}
	}
	return append(list, occ)
}

func cloneEvent(e model.Event) model.Event {
	out := e
	if e.Roles != nil {
		out.Roles = make(map[string][]string, len(e.Roles))
		for k, v := range e.Roles {
			out.Roles[k] = append([]string(nil), v...)
		}
	}
	out.Vehicles = append([]string(nil), e.Vehicles...)
	return out
}

func cloneLeg(l model.TransportLeg) model.TransportLeg {
	out := l
	out.Occupants = append([]model.Occupant(nil), l.Occupants...)
	out.Stops = make([]model.Stop, len(l.Stops))
	for i, s := range l.Stops {
		out.Stops[i] = s
		out.Stops[i].Persons = append([]model.Occupant(nil), s.Persons...)
	}
	return out
}
