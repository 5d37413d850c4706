// Package store defines the data store collaborator the engine persists
// through. The engine only ever needs whole-collection reads scoped to a
// tenant and batched upsert/delete writes with merge-by-id semantics; the
// backing implementation (in-memory, SQLite, a remote document store) is an
// infra concern.
package store

import (
	"context"

	"github.com/clubops/planner/core/model"
)

// Snapshot is a whole-collection read of one tenant's data. Implementations
// return copies: mutating a snapshot never affects the store.
type Snapshot struct {
	Events   []model.Event
	Legs     []model.TransportLeg
	Vehicles []model.Vehicle
	Staff    []model.StaffMember
	Items    []model.BudgetItem
}

// Event looks up an event by id.
func (s Snapshot) Event(id string) (model.Event, bool) {
	for _, ev := range s.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

// EventLegs returns the legs belonging to the event, in stored order.
func (s Snapshot) EventLegs(eventID string) []model.TransportLeg {
	var legs []model.TransportLeg
	for _, leg := range s.Legs {
		if leg.EventID == eventID {
			legs = append(legs, leg)
		}
	}
	return legs
}

// Vehicle looks up a vehicle by id.
func (s Snapshot) Vehicle(id string) (model.Vehicle, bool) {
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return model.Vehicle{}, false
}

// StaffMember looks up a staff member by id.
func (s Snapshot) StaffMember(id string) (model.StaffMember, bool) {
	for _, m := range s.Staff {
		if m.ID == id {
			return m, true
		}
	}
	return model.StaffMember{}, false
}

// VehicleIndex returns the vehicles keyed by id.
func (s Snapshot) VehicleIndex() map[string]model.Vehicle {
	idx := make(map[string]model.Vehicle, len(s.Vehicles))
	for _, v := range s.Vehicles {
		idx[v.ID] = v
	}
	return idx
}

// EventItems returns the budget items belonging to the event.
func (s Snapshot) EventItems(eventID string) []model.BudgetItem {
	var items []model.BudgetItem
	for _, it := range s.Items {
		if it.EventID == eventID {
			items = append(items, it)
		}
	}
	return items
}

// Batch stages the writes of one unit of work. All staged writes are
// applied in a single Apply call so a commit either lands whole or not at
// all. Upserts merge by id; deletes are by id.
type Batch struct {
	Events       []model.Event
	Legs         []model.TransportLeg
	DeletedLegs  []string
	Vehicles     []model.Vehicle
	Staff        []model.StaffMember
	Items        []model.BudgetItem
	DeletedItems []string
}

// Empty reports whether the batch stages no writes.
func (b Batch) Empty() bool {
	return len(b.Events) == 0 && len(b.Legs) == 0 && len(b.DeletedLegs) == 0 &&
		len(b.Vehicles) == 0 && len(b.Staff) == 0 &&
		len(b.Items) == 0 && len(b.DeletedItems) == 0
}

// Store is the persistence collaborator. Load reads every collection of the
// tenant; Apply flushes one batch atomically.
type Store interface {
	Load(ctx context.Context, tenant string) (Snapshot, error)
	Apply(ctx context.Context, tenant string, batch Batch) error
	Close() error
}
