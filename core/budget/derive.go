// Package budget recomputes the automatic budget line items of an event
// from its assignment state. Derivation is total: every run discards all
// prior auto items and rebuilds them from scratch, so running it twice on
// unchanged input yields identical output and a failed intermediate state
// self-heals on the next run.
package budget

import (
	"fmt"

	"github.com/clubops/planner/core/model"
	"github.com/clubops/planner/core/schedule"
)

// VehicleItemID is the deterministic id of the auto item derived from a
// leg's vehicle assignment. The id generator for manual entities must never
// produce ids with this prefix.
func VehicleItemID(legID string) string {
	return "auto-vehicle-" + legID
}

// StaffItemID is the deterministic id of the auto item derived from a
// freelance staff member's presence on an event's legs.
func StaffItemID(eventID, staffID string) string {
	return fmt.Sprintf("auto-vacataire-%s-%s", eventID, staffID)
}

// Derive rebuilds the event's budget item list: previous manual items keep
// their order, followed by the freshly computed vehicle items (leg order)
// and staff items (staff order). Vehicles maps vehicle id to vehicle;
// staff is the full roster, from which only billable freelancers occupying
// a leg produce items. Resources without a configured cost or rate yield
// nothing, as do legs without a departure date.
func Derive(event model.Event, legs []model.TransportLeg, vehicles map[string]model.Vehicle, staff []model.StaffMember, previous []model.BudgetItem) []model.BudgetItem {
	items := make([]model.BudgetItem, 0, len(previous))
	for _, it := range previous {
		if it.EventID == event.ID && !it.Origin.Auto() {
			items = append(items, it)
		}
	}
	items = append(items, vehicleItems(event, legs, vehicles)...)
	items = append(items, staffItems(event, legs, staff)...)
	return items
}

// vehicleItems emits one item per leg with a costed vehicle and a departure
// date: days = max(1, round(span)+1), cost = daily cost × days.
func vehicleItems(event model.Event, legs []model.TransportLeg, vehicles map[string]model.Vehicle) []model.BudgetItem {
	var items []model.BudgetItem
	for _, leg := range legs {
		if leg.VehicleID == "" || leg.Departure.Date.IsZero() {
			continue
		}
		v, ok := vehicles[leg.VehicleID]
		if !ok || v.DailyCost <= 0 {
			continue
		}
		end := leg.Arrival.Date
		if end.IsZero() {
			end = leg.Departure.Date
		}
		days := schedule.Days(leg.Departure.Date, end)
		items = append(items, model.BudgetItem{
			ID:              VehicleItemID(leg.ID),
			EventID:         event.ID,
			Category:        model.CategoryTeamVehicle,
			Description:     fmt.Sprintf("%s (%d day(s))", v.Name, days),
			EstimatedCost:   v.DailyCost * float64(days),
			Origin:          model.OriginAutoVehicle,
			SourceVehicleID: v.ID,
		})
	}
	return items
}

// staffItems emits one item per billable freelancer occupying at least one
// leg, bracketing the earliest departure and latest arrival across those
// legs. Estimated and actual cost are both set: day-rate work is billed for
// the days bracketed, not re-estimated later.
func staffItems(event model.Event, legs []model.TransportLeg, staff []model.StaffMember) []model.BudgetItem {
	var items []model.BudgetItem
	for _, member := range staff {
		if !member.Billable() {
			continue
		}
		bracket, ok := occupiedBracket(legs, member.ID)
		if !ok {
			continue
		}
		days := schedule.Days(bracket.Start, bracket.EffectiveEnd())
		cost := member.DailyRate * float64(days)
		items = append(items, model.BudgetItem{
			ID:            StaffItemID(event.ID, member.ID),
			EventID:       event.ID,
			Category:      model.CategorySalaries,
			Description:   fmt.Sprintf("%s (%d day(s))", member.Name, days),
			EstimatedCost: cost,
			ActualCost:    cost,
			Origin:        model.OriginAutoStaff,
			SourceStaffID: member.ID,
		})
	}
	return items
}

// occupiedBracket returns the date bracket spanning every leg the person
// occupies, in any person type. Legs without a departure date are skipped.
func occupiedBracket(legs []model.TransportLeg, personID string) (model.DateRange, bool) {
	var bracket model.DateRange
	found := false
	for _, leg := range legs {
		if leg.Departure.Date.IsZero() || !occupies(leg, personID) {
			continue
		}
		end := leg.Arrival.Date
		if end.IsZero() {
			end = leg.Departure.Date
		}
		if !found {
			bracket = model.DateRange{Start: leg.Departure.Date, End: end}
			found = true
			continue
		}
		if leg.Departure.Date.Before(bracket.Start) {
			bracket.Start = leg.Departure.Date
		}
		if end.After(bracket.EffectiveEnd()) {
			bracket.End = end
		}
	}
	return bracket, found
}

func occupies(leg model.TransportLeg, personID string) bool {
	for _, occ := range leg.Occupants {
		if occ.PersonID == personID {
			return true
		}
	}
	return false
}
