package planner

import (
	"context"
	"fmt"

	"github.com/clubops/planner/core/availability"
	"github.com/clubops/planner/core/backlink"
	"github.com/clubops/planner/core/budget"
	"github.com/clubops/planner/core/events"
	"github.com/clubops/planner/core/model"
	"github.com/clubops/planner/core/store"
)

// Events lists the tenant's events.
func (m *Manager) Events(ctx context.Context, tenant string) ([]model.Event, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return snap.Events, nil
}

// BudgetItems returns the event's budget items, manual and derived.
func (m *Manager) BudgetItems(ctx context.Context, tenant, eventID string) ([]model.BudgetItem, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Event(eventID); !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	return snap.EventItems(eventID), nil
}

// LegsByDirection groups the event's legs by trip direction, preserving
// stored order within each group.
func (m *Manager) LegsByDirection(ctx context.Context, tenant, eventID string) (map[model.LegDirection][]model.TransportLeg, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Event(eventID); !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	out := make(map[model.LegDirection][]model.TransportLeg)
	for _, leg := range snap.EventLegs(eventID) {
		out[leg.Direction] = append(out[leg.Direction], leg)
	}
	return out, nil
}

// ResourceAvailability classifies a vehicle or staff member against a
// candidate range without opening a draft. Vehicles are checked against
// every stored leg; staff against every stored event.
func (m *Manager) ResourceAvailability(ctx context.Context, tenant, resourceID string, candidate model.DateRange) (availability.Status, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return availability.Status{}, err
	}
	if v, ok := snap.Vehicle(resourceID); ok {
		return availability.CheckVehicle(v, candidate, snap.Legs, ""), nil
	}
	if s, ok := snap.StaffMember(resourceID); ok {
		return availability.CheckStaff(s, candidate, snap.Events, ""), nil
	}
	return availability.Status{}, fmt.Errorf("%w: resource %s", ErrNotFound, resourceID)
}

// RecomputeBudget re-derives the event's automatic budget items from its
// stored assignment state and flushes the difference. Running it on
// unchanged state is a no-op. Returns the number of auto items now present.
func (m *Manager) RecomputeBudget(ctx context.Context, tenant, eventID string) (int, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return 0, err
	}
	event, ok := snap.Event(eventID)
	if !ok {
		return 0, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	items := budget.Derive(event, snap.EventLegs(eventID), snap.VehicleIndex(), snap.Staff, snap.EventItems(eventID))
	autoItems, deletedItems := diffItems(snap.EventItems(eventID), items)
	if len(autoItems) > 0 || len(deletedItems) > 0 {
		batch := store.Batch{Items: autoItems, DeletedItems: deletedItems}
		if err := m.store.Apply(ctx, tenant, batch); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	m.logger.Infof("recomputed budget for event %s: %d auto items, %d removed", eventID, len(autoItems), len(deletedItems))
	m.publish(events.BudgetRecomputed{Tenant: tenant, EventID: eventID, AutoItems: len(autoItems)})
	return len(autoItems), nil
}

// SyncBacklinks rebuilds every resource's reverse event-reference list from
// the stored events. Returns the number of resources corrected.
func (m *Manager) SyncBacklinks(ctx context.Context, tenant string) (int, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return 0, err
	}
	changedVehicles, changedStaff := backlink.Rebuild(snap.Events, snap.Vehicles, snap.Staff)
	changed := len(changedVehicles) + len(changedStaff)
	if changed > 0 {
		batch := store.Batch{Vehicles: changedVehicles, Staff: changedStaff}
		if err := m.store.Apply(ctx, tenant, batch); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	m.logger.Infof("backlink sync corrected %d resources", changed)
	m.publish(events.BacklinksSynced{Tenant: tenant, Changed: changed})
	return changed, nil
}

// VerifyBacklinks reports every broken (resource, event) pair without
// fixing anything.
func (m *Manager) VerifyBacklinks(ctx context.Context, tenant string) ([]backlink.Inconsistency, error) {
	snap, err := m.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return backlink.Verify(snap.Events, snap.Vehicles, snap.Staff), nil
}

func (m *Manager) load(ctx context.Context, tenant string) (store.Snapshot, error) {
	snap, err := m.store.Load(ctx, tenant)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return snap, nil
}
