package model

import "sort"

// Event is a time-bound club event to which staff and vehicles are assigned.
// Roles maps a role key (coach, referee, logistics, ...) to the ordered list
// of staff ids filling that role.
type Event struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Type     string              `json:"type,omitempty"`
	Location string              `json:"location,omitempty"`
	Dates    DateRange           `json:"dates"`
	Roles    map[string][]string `json:"roles,omitempty"`
	Vehicles []string            `json:"vehicles,omitempty"`
}

// SelectedStaff flattens the role lists into the set of all assigned staff
// ids. Order is deterministic: role keys sorted, then list order, with
// duplicates across roles dropped.
func (e Event) SelectedStaff() []string {
	keys := make([]string, 0, len(e.Roles))
	for k := range e.Roles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	seen := make(map[string]bool)
	var ids []string
	for _, k := range keys {
		for _, id := range e.Roles[k] {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// HasStaff reports whether the staff id appears in any role list.
func (e Event) HasStaff(id string) bool {
	for _, list := range e.Roles {
		for _, sid := range list {
			if sid == id {
				return true
			}
		}
	}
	return false
}

// HasVehicle reports whether the vehicle id is selected for the event.
func (e Event) HasVehicle(id string) bool {
	for _, vid := range e.Vehicles {
		if vid == id {
			return true
		}
	}
	return false
}
