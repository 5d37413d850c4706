package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubops/planner/core/availability"
	"github.com/clubops/planner/core/backlink"
	"github.com/clubops/planner/core/budget"
	"github.com/clubops/planner/core/events"
	"github.com/clubops/planner/core/metrics"
	"github.com/clubops/planner/core/model"
	"github.com/clubops/planner/core/registry"
	"github.com/clubops/planner/core/store"
)

// Draft buffers one edit of an event's assignment state. Nothing touches
// shared state until Commit; Discard drops the draft with no effect.
type Draft struct {
	mgr         *Manager
	tenant      string
	snap        store.Snapshot
	reg         *registry.Registry
	removedLegs []string
	closed      bool
}

// OpenDraft loads the tenant's collections and buffers the event's current
// assignment state for editing.
func (m *Manager) OpenDraft(ctx context.Context, tenant, eventID string) (*Draft, error) {
	snap, err := m.store.Load(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	event, ok := snap.Event(eventID)
	if !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	reg, err := registry.New(event, snap.EventLegs(eventID))
	if err != nil {
		return nil, err
	}
	return &Draft{mgr: m, tenant: tenant, snap: snap, reg: reg}, nil
}

// Event returns the draft's current event state.
func (d *Draft) Event() model.Event { return d.reg.Event() }

// Legs returns the draft's current leg state.
func (d *Draft) Legs() []model.TransportLeg { return d.reg.Legs() }

// Discard abandons the draft. The shared state is unaffected.
func (d *Draft) Discard() { d.closed = true }

func (d *Draft) guard() error {
	if d.closed {
		return ErrDraftClosed
	}
	return nil
}

// SetRoleAssignment replaces the role's staff list. Every id must name a
// known staff member.
func (d *Draft) SetRoleAssignment(role string, staffIDs []string) error {
	if err := d.guard(); err != nil {
		return err
	}
	for _, id := range staffIDs {
		if _, ok := d.snap.StaffMember(id); !ok {
			return fmt.Errorf("%w: staff %s", ErrNotFound, id)
		}
	}
	d.reg.SetRoleAssignment(role, staffIDs)
	return nil
}

// SetVehicleSelection replaces the event's selected vehicle list.
func (d *Draft) SetVehicleSelection(vehicleIDs []string) error {
	if err := d.guard(); err != nil {
		return err
	}
	for _, id := range vehicleIDs {
		if _, ok := d.snap.Vehicle(id); !ok {
			return fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
		}
	}
	d.reg.SetVehicleSelection(vehicleIDs)
	return nil
}

// SetLegVehicle assigns the vehicle to the leg, defaulting the driver from
// the vehicle's designated driver when none was explicitly chosen. An empty
// vehicle id clears the assignment.
func (d *Draft) SetLegVehicle(legID, vehicleID string) error {
	if err := d.guard(); err != nil {
		return err
	}
	if vehicleID == "" {
		return d.wrap(d.reg.SetLegVehicle(legID, nil))
	}
	v, ok := d.snap.Vehicle(vehicleID)
	if !ok {
		return fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	return d.wrap(d.reg.SetLegVehicle(legID, &v))
}

// SetLegDriver records an explicit driver choice for the leg.
func (d *Draft) SetLegDriver(legID, driverID string) error {
	if err := d.guard(); err != nil {
		return err
	}
	if driverID != "" {
		if _, ok := d.snap.StaffMember(driverID); !ok {
			return fmt.Errorf("%w: staff %s", ErrNotFound, driverID)
		}
	}
	return d.wrap(d.reg.SetLegDriver(legID, driverID))
}

// ToggleOccupant inserts or removes the (person, type) pair on the leg.
func (d *Draft) ToggleOccupant(legID string, occ model.Occupant) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.wrap(d.reg.ToggleOccupant(legID, occ))
}

// AddLeg creates a new leg on the event and returns its id.
func (d *Draft) AddLeg(direction model.LegDirection, departure, arrival model.Waypoint) (string, error) {
	if err := d.guard(); err != nil {
		return "", err
	}
	leg := model.TransportLeg{
		ID:        d.mgr.ids.NewID(),
		EventID:   d.reg.Event().ID,
		Direction: direction,
		Departure: departure,
		Arrival:   arrival,
	}
	if err := d.reg.AddLeg(leg); err != nil {
		return "", err
	}
	return leg.ID, nil
}

// RemoveLeg deletes the leg; the deletion is flushed at commit.
func (d *Draft) RemoveLeg(legID string) error {
	if err := d.guard(); err != nil {
		return err
	}
	if err := d.reg.RemoveLeg(legID); err != nil {
		return d.wrap(err)
	}
	d.removedLegs = append(d.removedLegs, legID)
	return nil
}

// AddStop appends an intermediate stop to the leg and returns its id.
func (d *Draft) AddStop(legID string, wp model.Waypoint, kind string) (string, error) {
	if err := d.guard(); err != nil {
		return "", err
	}
	stop := model.Stop{ID: d.mgr.ids.NewID(), Waypoint: wp, Kind: kind}
	if err := d.reg.AddStop(legID, stop); err != nil {
		return "", d.wrap(err)
	}
	return stop.ID, nil
}

// RemoveStop deletes the stop from the leg.
func (d *Draft) RemoveStop(legID, stopID string) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.wrap(d.reg.RemoveStop(legID, stopID))
}

// UpdateStop applies fn to the stop in place.
func (d *Draft) UpdateStop(legID, stopID string, fn func(*model.Stop)) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.wrap(d.reg.UpdateStop(legID, stopID, fn))
}

// ToggleStopPerson toggles the (person, type) pair on the stop's own list.
func (d *Draft) ToggleStopPerson(legID, stopID string, occ model.Occupant) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.wrap(d.reg.ToggleStopPerson(legID, stopID, occ))
}

// VehicleAvailability classifies one vehicle against the candidate range,
// excluding the leg being edited from the scan.
func (d *Draft) VehicleAvailability(vehicleID string, candidate model.DateRange, excludeLegID string) (availability.Status, error) {
	v, ok := d.snap.Vehicle(vehicleID)
	if !ok {
		return availability.Status{}, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	return availability.CheckVehicle(v, candidate, d.scanLegs(), excludeLegID), nil
}

// StaffAvailability classifies one staff member against the draft event's
// range.
func (d *Draft) StaffAvailability(staffID string) (availability.Status, error) {
	m, ok := d.snap.StaffMember(staffID)
	if !ok {
		return availability.Status{}, fmt.Errorf("%w: staff %s", ErrNotFound, staffID)
	}
	ev := d.reg.Event()
	return availability.CheckStaff(m, ev.Dates, d.snap.Events, ev.ID), nil
}

// AnnotateVehicles classifies every vehicle against the candidate range.
// The edit surface binds its selection controls to this map.
func (d *Draft) AnnotateVehicles(candidate model.DateRange, excludeLegID string) map[string]availability.Status {
	legs := d.scanLegs()
	out := make(map[string]availability.Status, len(d.snap.Vehicles))
	for _, v := range d.snap.Vehicles {
		out[v.ID] = availability.CheckVehicle(v, candidate, legs, excludeLegID)
	}
	return out
}

// AnnotateStaff classifies every staff member against the draft event's
// range.
func (d *Draft) AnnotateStaff() map[string]availability.Status {
	ev := d.reg.Event()
	out := make(map[string]availability.Status, len(d.snap.Staff))
	for _, m := range d.snap.Staff {
		out[m.ID] = availability.CheckStaff(m, ev.Dates, d.snap.Events, ev.ID)
	}
	return out
}

// scanLegs is the assignment snapshot availability checks run against: all
// stored legs, with this event's replaced by the draft's current state.
func (d *Draft) scanLegs() []model.TransportLeg {
	eventID := d.reg.Event().ID
	var legs []model.TransportLeg
	for _, leg := range d.snap.Legs {
		if leg.EventID != eventID {
			legs = append(legs, leg)
		}
	}
	return append(legs, d.reg.Legs()...)
}

// Commit validates the draft, rejects conflicting assignments, derives the
// event's automatic budget items, re-derives backlinks and flushes
// everything as one batch. On persistence failure nothing is applied and
// the draft stays open for retry.
func (d *Draft) Commit(ctx context.Context) error {
	if err := d.guard(); err != nil {
		return err
	}
	start := time.Now()
	event := d.reg.Event()
	legs := d.reg.Legs()

	if !event.Dates.Valid() {
		return fmt.Errorf("%w: event %s ends before it starts", ErrValidation, event.ID)
	}
	for _, leg := range legs {
		if !leg.Range().Valid() {
			return fmt.Errorf("%w: leg %s arrives before it departs", ErrValidation, leg.ID)
		}
	}
	if err := d.checkConflicts(event, legs); err != nil {
		return err
	}

	items := budget.Derive(event, legs, d.snap.VehicleIndex(), d.snap.Staff, d.snap.EventItems(event.ID))
	autoItems, deletedItems := diffItems(d.snap.EventItems(event.ID), items)
	changedVehicles, changedStaff := backlink.SyncEvent(event, d.snap.Vehicles, d.snap.Staff)

	batch := store.Batch{
		Events:       []model.Event{event},
		Legs:         legs,
		DeletedLegs:  d.removedLegs,
		Vehicles:     changedVehicles,
		Staff:        changedStaff,
		Items:        autoItems,
		DeletedItems: deletedItems,
	}
	if err := d.mgr.store.Apply(ctx, d.tenant, batch); err != nil {
		d.mgr.logger.Errorf("commit flush failed for event %s: %v", event.ID, err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	d.closed = true

	dur := time.Since(start)
	backlinks := len(changedVehicles) + len(changedStaff)
	d.mgr.logger.Infof("committed event %s: %d legs, %d auto items, %d backlink updates", event.ID, len(legs), len(autoItems), backlinks)
	d.mgr.publish(events.DraftCommitted{
		Tenant:    d.tenant,
		EventID:   event.ID,
		Legs:      len(legs),
		AutoItems: len(autoItems),
		Backlinks: backlinks,
		Duration:  dur,
	})
	if err := d.mgr.metrics.RecordCommit(metrics.CommitRecord{
		Tenant:    d.tenant,
		EventID:   event.ID,
		Legs:      len(legs),
		AutoItems: len(autoItems),
		Backlinks: backlinks,
		Duration:  dur,
		Time:      time.Now(),
	}); err != nil {
		d.mgr.logger.Errorf("metrics error: %v", err)
	}
	return nil
}

// checkConflicts enforces conflict-freedom as a hard invariant: a draft
// whose vehicle or staff assignments the availability checker marks
// unavailable cannot be committed, regardless of what the edit surface
// allowed.
func (d *Draft) checkConflicts(event model.Event, legs []model.TransportLeg) error {
	scan := d.scanLegs()
	for _, leg := range legs {
		if leg.VehicleID == "" {
			continue
		}
		v, ok := d.snap.Vehicle(leg.VehicleID)
		if !ok {
			return fmt.Errorf("%w: vehicle %s", ErrNotFound, leg.VehicleID)
		}
		if st := availability.CheckVehicle(v, leg.Range(), scan, leg.ID); !st.Free() {
			return d.conflict(event.ID, v.ID, st.Reason)
		}
	}
	for _, id := range event.SelectedStaff() {
		m, ok := d.snap.StaffMember(id)
		if !ok {
			return fmt.Errorf("%w: staff %s", ErrNotFound, id)
		}
		if st := availability.CheckStaff(m, event.Dates, d.snap.Events, event.ID); !st.Free() {
			return d.conflict(event.ID, m.ID, st.Reason)
		}
	}
	return nil
}

func (d *Draft) conflict(eventID, resourceID, reason string) error {
	d.mgr.publish(events.ConflictDetected{Tenant: d.tenant, EventID: eventID, ResourceID: resourceID, Reason: reason})
	if cr, ok := d.mgr.metrics.(metrics.ConflictRecorder); ok {
		if err := cr.RecordConflict(metrics.ConflictRecord{
			Tenant:     d.tenant,
			EventID:    eventID,
			ResourceID: resourceID,
			Reason:     reason,
			Time:       time.Now(),
		}); err != nil {
			d.mgr.logger.Errorf("metrics error: %v", err)
		}
	}
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}

// diffItems splits the fresh derivation into items to upsert and prior auto
// item ids no longer regenerated.
func diffItems(previous, derived []model.BudgetItem) (upserts []model.BudgetItem, deleted []string) {
	fresh := make(map[string]bool)
	for _, it := range derived {
		if it.Origin.Auto() {
			fresh[it.ID] = true
			upserts = append(upserts, it)
		}
	}
	for _, it := range previous {
		if it.Origin.Auto() && !fresh[it.ID] {
			deleted = append(deleted, it.ID)
		}
	}
	return upserts, deleted
}

func (d *Draft) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, registry.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
