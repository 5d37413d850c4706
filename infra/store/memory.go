// Package store provides the persistence implementations of the engine's
// data store collaborator: a mutex-guarded in-memory store for tests and
// drafts-only deployments, and a SQLite-backed store for the CLI.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/clubops/planner/core/model"
	corestore "github.com/clubops/planner/core/store"
)

type collections struct {
	events   map[string]model.Event
	legs     map[string]model.TransportLeg
	vehicles map[string]model.Vehicle
	staff    map[string]model.StaffMember
	items    map[string]model.BudgetItem
	// order preserves insertion order per collection so snapshots are
	// deterministic.
	order map[string][]string
}

func newCollections() *collections {
	return &collections{
		events:   make(map[string]model.Event),
		legs:     make(map[string]model.TransportLeg),
		vehicles: make(map[string]model.Vehicle),
		staff:    make(map[string]model.StaffMember),
		items:    make(map[string]model.BudgetItem),
		order:    make(map[string][]string),
	}
}

func (c *collections) track(collection, id string) {
	for _, cur := range c.order[collection] {
		if cur == id {
			return
		}
	}
	c.order[collection] = append(c.order[collection], id)
}

func (c *collections) untrack(collection, id string) {
	list := c.order[collection]
	for i, cur := range list {
		if cur == id {
			c.order[collection] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// MemoryStore keeps every tenant's collections in process memory. Apply is
// atomic under the store mutex; Load returns deep copies via a JSON round
// trip so callers can never alias shared state.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]*collections
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[string]*collections)}
}

// Seed applies a batch without going through a commit pipeline, for test
// fixtures and imports.
func (s *MemoryStore) Seed(tenant string, batch corestore.Batch) {
	_ = s.Apply(context.Background(), tenant, batch)
}

// Load implements core/store.Store.
func (s *MemoryStore) Load(_ context.Context, tenant string) (corestore.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.tenants[tenant]
	if !ok {
		return corestore.Snapshot{}, nil
	}
	var snap corestore.Snapshot
	for _, id := range col.order["events"] {
		snap.Events = append(snap.Events, deepCopy(col.events[id]))
	}
	for _, id := range col.order["legs"] {
		snap.Legs = append(snap.Legs, deepCopy(col.legs[id]))
	}
	for _, id := range col.order["vehicles"] {
		snap.Vehicles = append(snap.Vehicles, deepCopy(col.vehicles[id]))
	}
	for _, id := range col.order["staff"] {
		snap.Staff = append(snap.Staff, deepCopy(col.staff[id]))
	}
	for _, id := range col.order["items"] {
		snap.Items = append(snap.Items, deepCopy(col.items[id]))
	}
	return snap, nil
}

// Apply implements core/store.Store. The whole batch lands under one lock
// acquisition; a batch is never half-applied.
func (s *MemoryStore) Apply(_ context.Context, tenant string, batch corestore.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.tenants[tenant]
	if !ok {
		col = newCollections()
		s.tenants[tenant] = col
	}
	for _, ev := range batch.Events {
		col.events[ev.ID] = deepCopy(ev)
		col.track("events", ev.ID)
	}
	for _, leg := range batch.Legs {
		col.legs[leg.ID] = deepCopy(leg)
		col.track("legs", leg.ID)
	}
	for _, id := range batch.DeletedLegs {
		delete(col.legs, id)
		col.untrack("legs", id)
	}
	for _, v := range batch.Vehicles {
		col.vehicles[v.ID] = deepCopy(v)
		col.track("vehicles", v.ID)
	}
	for _, m := range batch.Staff {
		col.staff[m.ID] = deepCopy(m)
		col.track("staff", m.ID)
	}
	for _, it := range batch.Items {
		col.items[it.ID] = deepCopy(it)
		col.track("items", it.ID)
	}
	for _, id := range batch.DeletedItems {
		delete(col.items, id)
		col.untrack("items", id)
	}
	return nil
}

// Close implements core/store.Store.
func (s *MemoryStore) Close() error { return nil }

func deepCopy[T any](in T) T {
	b, err := json.Marshal(in)
	if err != nil {
		panic(fmt.Sprintf("store: copy marshal: %v", err))
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("store: copy unmarshal: %v", err))
	}
	return out
}
