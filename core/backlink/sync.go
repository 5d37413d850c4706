// Package backlink keeps the denormalized assignedEvents list of every
// vehicle and staff member consistent with the events that reference them.
// Synchronization is a full pass over all resources, not an incremental
// diff, so references left over from a resource's previous state are
// corrected too.
package backlink

import "github.com/clubops/planner/core/model"

// SyncEvent reconciles every resource's reverse list against one event:
// the event id is appended where the event references the resource and
// removed where it no longer does. Only changed resources are returned, in
// input order, so callers can persist just those. Afterward, for every
// resource, assignedEvents contains the event id iff the event references
// the resource.
func SyncEvent(event model.Event, vehicles []model.Vehicle, staff []model.StaffMember) ([]model.Vehicle, []model.StaffMember) {
	var changedVehicles []model.Vehicle
	for _, v := range vehicles {
		refs, changed := reconcile(v.AssignedEvents, event.ID, event.HasVehicle(v.ID))
		if changed {
			v.AssignedEvents = refs
			changedVehicles = append(changedVehicles, v)
		}
	}
	var changedStaff []model.StaffMember
	for _, s := range staff {
		refs, changed := reconcile(s.AssignedEvents, event.ID, event.HasStaff(s.ID))
		if changed {
			s.AssignedEvents = refs
			changedStaff = append(changedStaff, s)
		}
	}
	return changedVehicles, changedStaff
}

// Rebuild re-derives every resource's reverse list from the full event set,
// discarding whatever was stored before. Used by the repair command and as
// the self-healing path after a partial commit.
func Rebuild(events []model.Event, vehicles []model.Vehicle, staff []model.StaffMember) ([]model.Vehicle, []model.StaffMember) {
	var changedVehicles []model.Vehicle
	for _, v := range vehicles {
		var refs []string
		for _, ev := range events {
			if ev.HasVehicle(v.ID) {
				refs = append(refs, ev.ID)
			}
		}
		if !equal(refs, v.AssignedEvents) {
			v.AssignedEvents = refs
			changedVehicles = append(changedVehicles, v)
		}
	}
	var changedStaff []model.StaffMember
	for _, s := range staff {
		var refs []string
		for _, ev := range events {
			if ev.HasStaff(s.ID) {
				refs = append(refs, ev.ID)
			}
		}
		if !equal(refs, s.AssignedEvents) {
			s.AssignedEvents = refs
			changedStaff = append(changedStaff, s)
		}
	}
	return changedVehicles, changedStaff
}

// Inconsistency reports one broken (resource, event) pair found by Verify.
type Inconsistency struct {
	ResourceID string
	EventID    string
	// Stale is true when the resource lists an event that no longer
	// references it, false when a reference is missing.
	Stale bool
}

// Verify reports every (resource, event) pair violating the backlink
// invariant without fixing anything.
func Verify(events []model.Event, vehicles []model.Vehicle, staff []model.StaffMember) []Inconsistency {
	byID := make(map[string]model.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	var out []Inconsistency
	for _, v := range vehicles {
		out = append(out, verifyResource(v.ID, v.AssignedEvents, events, byID, func(ev model.Event) bool { return ev.HasVehicle(v.ID) })...)
	}
	for _, s := range staff {
		out = append(out, verifyResource(s.ID, s.AssignedEvents, events, byID, func(ev model.Event) bool { return ev.HasStaff(s.ID) })...)
	}
	return out
}

func verifyResource(resourceID string, refs []string, events []model.Event, byID map[string]model.Event, assigned func(model.Event) bool) []Inconsistency {
	var out []Inconsistency
	listed := make(map[string]bool, len(refs))
	for _, id := range refs {
		listed[id] = true
		ev, ok := byID[id]
		if !ok || !assigned(ev) {
			out = append(out, Inconsistency{ResourceID: resourceID, EventID: id, Stale: true})
		}
	}
	for _, ev := range events {
		if assigned(ev) && !listed[ev.ID] {
			out = append(out, Inconsistency{ResourceID: resourceID, EventID: ev.ID})
		}
	}
	return out
}

// reconcile adds or removes the event id from refs to match assigned,
// reporting whether a change was made.
func reconcile(refs []string, eventID string, assigned bool) ([]string, bool) {
	idx := -1
	for i, id := range refs {
		if id == eventID {
			idx = i
			break
		}
	}
	switch {
	case assigned && idx < 0:
		return append(append([]string(nil), refs...), eventID), true
	case !assigned && idx >= 0:
		out := append([]string(nil), refs[:idx]...)
		return append(out, refs[idx+1:]...), true
	}
	return refs, false
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
