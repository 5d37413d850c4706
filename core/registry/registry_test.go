package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/clubops/planner/core/model"
)

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	event := model.Event{ID: "e1", Name: "Cup", Dates: model.DateRange{Start: day(10), End: day(12)}}
	legs := []model.TransportLeg{
		{ID: "l1", EventID: "e1", Direction: model.DirectionOutbound, Departure: model.Waypoint{Date: day(10)}},
	}
	r, err := New(event, legs)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return r
}

func TestNewRejectsForeignLegs(t *testing.T) {
	event := model.Event{ID: "e1"}
	legs := []model.TransportLeg{{ID: "l1", EventID: "e2"}}
	if _, err := New(event, legs); err == nil {
		t.Fatal("expected error for leg of another event")
	}
}

func TestSetRoleAssignmentUnion(t *testing.T) {
	r := newTestRegistry(t)
	r.SetRoleAssignment("coach", []string{"s1", "s2", "s2"})
	r.SetRoleAssignment("logistics", []string{"s2", "s3"})
	got := r.SelectedStaff()
	want := []string{"s1", "s2", "s3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSetRoleAssignmentEmptyRemovesRole(t *testing.T) {
	r := newTestRegistry(t)
	r.SetRoleAssignment("coach", []string{"s1"})
	r.SetRoleAssignment("coach", nil)
	if staff := r.SelectedStaff(); len(staff) != 0 {
		t.Fatalf("expected no staff, got %v", staff)
	}
	if _, ok := r.Event().Roles["coach"]; ok {
		t.Fatal("empty role key should be removed")
	}
}

func TestSetLegVehicleDefaultsDriver(t *testing.T) {
	r := newTestRegistry(t)
	v := model.Vehicle{ID: "v1", DriverID: "s9"}
	if err := r.SetLegVehicle("l1", &v); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	leg, err := r.Leg("l1")
	if err != nil {
		t.Fatalf("leg: %v", err)
	}
	if leg.DriverID != "s9" {
		t.Fatalf("expected defaulted driver s9, got %q", leg.DriverID)
	}
	if !r.Event().HasVehicle("v1") {
		t.Fatal("leg vehicle should join the event selection")
	}
}

func TestExplicitDriverSurvivesVehicleChange(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.SetLegDriver("l1", "s5"); err != nil {
		t.Fatalf("set driver: %v", err)
	}
	v := model.Vehicle{ID: "v1", DriverID: "s9"}
	if err := r.SetLegVehicle("l1", &v); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	leg, _ := r.Leg("l1")
	if leg.DriverID != "s5" {
		t.Fatalf("explicit driver must survive vehicle change, got %q", leg.DriverID)
	}
}

func TestClearVehicleDropsDefaultedDriver(t *testing.T) {
	r := newTestRegistry(t)
	v := model.Vehicle{ID: "v1", DriverID: "s9"}
	if err := r.SetLegVehicle("l1", &v); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	if err := r.SetLegVehicle("l1", nil); err != nil {
		t.Fatalf("clear vehicle: %v", err)
	}
	leg, _ := r.Leg("l1")
	if leg.VehicleID != "" || leg.DriverID != "" {
		t.Fatalf("expected cleared assignment, got vehicle %q driver %q", leg.VehicleID, leg.DriverID)
	}
}

func TestToggleOccupantPairIdentity(t *testing.T) {
	r := newTestRegistry(t)
	rider := model.Occupant{PersonID: "p1", Type: model.PersonRider}
	staff := model.Occupant{PersonID: "p1", Type: model.PersonStaff}
	if err := r.ToggleOccupant("l1", rider); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := r.ToggleOccupant("l1", staff); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	leg, _ := r.Leg("l1")
	if len(leg.Occupants) != 2 {
		t.Fatalf("same id with different types must coexist, got %v", leg.Occupants)
	}
	if err := r.ToggleOccupant("l1", rider); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	leg, _ = r.Leg("l1")
	if len(leg.Occupants) != 1 || leg.Occupants[0] != staff {
		t.Fatalf("second toggle must remove the pair, got %v", leg.Occupants)
	}
}

func TestStopLifecycle(t *testing.T) {
	r := newTestRegistry(t)
	stop := model.Stop{ID: "st1", Waypoint: model.Waypoint{Location: "Lyon", Date: day(10)}}
	if err := r.AddStop("l1", stop); err != nil {
		t.Fatalf("add stop: %v", err)
	}
	occ := model.Occupant{PersonID: "p2", Type: model.PersonRider}
	if err := r.ToggleStopPerson("l1", "st1", occ); err != nil {
		t.Fatalf("toggle stop person: %v", err)
	}
	if err := r.UpdateStop("l1", "st1", func(s *model.Stop) { s.Waypoint.Location = "Dijon" }); err != nil {
		t.Fatalf("update stop: %v", err)
	}
	leg, _ := r.Leg("l1")
	if leg.Stops[0].Waypoint.Location != "Dijon" {
		t.Fatalf("expected updated location, got %q", leg.Stops[0].Waypoint.Location)
	}
	if len(leg.Stops[0].Persons) != 1 {
		t.Fatalf("expected one stop person, got %v", leg.Stops[0].Persons)
	}
	if len(leg.Occupants) != 0 {
		t.Fatal("stop persons must not leak into the leg occupant list")
	}
	if err := r.RemoveStop("l1", "st1"); err != nil {
		t.Fatalf("remove stop: %v", err)
	}
	leg, _ = r.Leg("l1")
	if len(leg.Stops) != 0 {
		t.Fatalf("expected no stops, got %v", leg.Stops)
	}
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.ToggleOccupant("nope", model.Occupant{PersonID: "p1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := r.RemoveStop("l1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := r.RemoveLeg("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	r := newTestRegistry(t)
	legs := r.Legs()
	legs[0].VehicleID = "hacked"
	leg, _ := r.Leg("l1")
	if leg.VehicleID == "hacked" {
		t.Fatal("returned legs must be copies")
	}
	ev := r.Event()
	ev.Roles = map[string][]string{"coach": {"x"}}
	if r.Event().HasStaff("x") {
		t.Fatal("returned event must be a copy")
	}
}
