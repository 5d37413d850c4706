package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/clubops/planner/core/metrics"
	"github.com/clubops/planner/core/model"
	corestore "github.com/clubops/planner/core/store"
	"github.com/clubops/planner/infra/logger"
	"github.com/clubops/planner/infra/store"
	"github.com/clubops/planner/internal/idgen"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

type recordingSink struct {
	commits   []metrics.CommitRecord
	conflicts []metrics.ConflictRecord
}

func (r *recordingSink) RecordCommit(rec metrics.CommitRecord) error {
	r.commits = append(r.commits, rec)
	return nil
}

func (r *recordingSink) RecordConflict(rec metrics.ConflictRecord) error {
	r.conflicts = append(r.conflicts, rec)
	return nil
}

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	st.Seed("club", corestore.Batch{
		Events: []model.Event{
			{ID: "e1", Name: "Cup", Dates: model.DateRange{Start: day(10), End: day(12)}},
			{ID: "e2", Name: "Friendly", Dates: model.DateRange{Start: day(11)}},
		},
		Vehicles: []model.Vehicle{
			{ID: "v1", Name: "Minibus", DailyCost: 80, DriverID: "s2"},
		},
		Staff: []model.StaffMember{
			{ID: "s1", Name: "Ana", Status: model.StatusFreelance, DailyRate: 50},
			{ID: "s2", Name: "Bruno", Status: model.StatusSalaried},
		},
		Items: []model.BudgetItem{
			{ID: "m1", EventID: "e1", Category: "catering", EstimatedCost: 120},
		},
	})
	return st
}

func newTestManager(t *testing.T, st corestore.Store) (*Manager, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	mgr, err := NewManager(st, &idgen.Sequence{Prefix: "leg"}, logger.NopLogger{}, sink, nil)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return mgr, sink
}

func TestEndToEndCommitAndTeardown(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, sink := newTestManager(t, st)

	draft, err := mgr.OpenDraft(ctx, "club", "e1")
	if err != nil {
		t.Fatalf("open draft: %v", err)
	}
	legID, err := draft.AddLeg(model.DirectionOutbound,
		model.Waypoint{Location: "Club", Date: day(10)},
		model.Waypoint{Location: "Stadium", Date: day(12)})
	if err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if err := draft.SetLegVehicle(legID, "v1"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	items, err := mgr.BudgetItems(ctx, "club", "e1")
	if err != nil {
		t.Fatalf("budget items: %v", err)
	}
	wantID := "auto-vehicle-" + legID
	var found *model.BudgetItem
	for i := range items {
		if items[i].ID == wantID {
			found = &items[i]
		}
	}
	if found == nil {
		t.Fatalf("expected item %s, got %+v", wantID, items)
	}
	if found.EstimatedCost != 240 {
		t.Fatalf("3 days at 80 should cost 240, got %v", found.EstimatedCost)
	}
	snap, _ := st.Load(ctx, "club")
	v, _ := snap.Vehicle("v1")
	if len(v.AssignedEvents) != 1 || v.AssignedEvents[0] != "e1" {
		t.Fatalf("vehicle backlink missing, got %v", v.AssignedEvents)
	}
	if len(sink.commits) != 1 || sink.commits[0].AutoItems != 1 {
		t.Fatalf("expected one commit record with one auto item, got %+v", sink.commits)
	}

	// Tear the assignment down again: item and backlink must disappear.
	draft, err = mgr.OpenDraft(ctx, "club", "e1")
	if err != nil {
		t.Fatalf("reopen draft: %v", err)
	}
	if err := draft.RemoveLeg(legID); err != nil {
		t.Fatalf("remove leg: %v", err)
	}
	if err := draft.SetVehicleSelection(nil); err != nil {
		t.Fatalf("clear vehicles: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	items, _ = mgr.BudgetItems(ctx, "club", "e1")
	if len(items) != 1 || items[0].ID != "m1" {
		t.Fatalf("only the manual item should survive, got %+v", items)
	}
	snap, _ = st.Load(ctx, "club")
	v, _ = snap.Vehicle("v1")
	if len(v.AssignedEvents) != 0 {
		t.Fatalf("vehicle backlink should be gone, got %v", v.AssignedEvents)
	}
}

func TestCommitRejectsVehicleConflict(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, sink := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	legID, _ := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{Date: day(12)})
	if err := draft.SetLegVehicle(legID, "v1"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	other, _ := mgr.OpenDraft(ctx, "club", "e2")
	otherLeg, _ := other.AddLeg(model.DirectionDayOf, model.Waypoint{Date: day(11)}, model.Waypoint{})
	if err := other.SetLegVehicle(otherLeg, "v1"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	// The annotation the edit surface would show.
	status, err := other.VehicleAvailability("v1", model.DateRange{Start: day(11)}, otherLeg)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if status.Free() {
		t.Fatal("expected the vehicle to be annotated as taken")
	}
	// The hard invariant at commit time.
	err = other.Commit(ctx)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(sink.conflicts) != 1 {
		t.Fatalf("expected one conflict record, got %+v", sink.conflicts)
	}
}

func TestCommitRejectsStaffConflict(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	if err := draft.SetRoleAssignment("coach", []string{"s1"}); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	other, _ := mgr.OpenDraft(ctx, "club", "e2")
	if err := other.SetRoleAssignment("coach", []string{"s1"}); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := other.Commit(ctx); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCommitValidatesRanges(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	if _, err := draft.AddLeg(model.DirectionReturn,
		model.Waypoint{Date: day(12)}, model.Waypoint{Date: day(10)}); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if err := draft.Commit(ctx); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUnknownIDsSurfaceNotFound(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	if _, err := mgr.OpenDraft(ctx, "club", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	if err := draft.SetLegVehicle("nope", "v1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown leg, got %v", err)
	}
	if err := draft.SetRoleAssignment("coach", []string{"ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown staff, got %v", err)
	}
	legID, _ := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{})
	if err := draft.SetLegVehicle(legID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown vehicle, got %v", err)
	}
	if _, err := mgr.ResourceAvailability(ctx, "club", "ghost", model.DateRange{Start: day(1)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown resource, got %v", err)
	}
}

func TestDraftDiscardHasNoEffect(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	legID, _ := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{Date: day(12)})
	if err := draft.SetLegVehicle(legID, "v1"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	draft.Discard()
	if err := draft.Commit(ctx); !errors.Is(err, ErrDraftClosed) {
		t.Fatalf("expected ErrDraftClosed, got %v", err)
	}
	snap, _ := st.Load(ctx, "club")
	if len(snap.Legs) != 0 {
		t.Fatalf("discarded draft must leave no legs, got %v", snap.Legs)
	}
}

type failingStore struct {
	*store.MemoryStore
	failApply bool
}

func (f *failingStore) Apply(ctx context.Context, tenant string, batch corestore.Batch) error {
	if f.failApply {
		return fmt.Errorf("disk full")
	}
	return f.MemoryStore.Apply(ctx, tenant, batch)
}

func TestFlushFailureLeavesStateAndDraftIntact(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{MemoryStore: seedStore(t)}
	mgr, _ := newTestManager(t, fs)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	legID, _ := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{Date: day(12)})
	if err := draft.SetLegVehicle(legID, "v1"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	fs.failApply = true
	if err := draft.Commit(ctx); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	snap, _ := fs.MemoryStore.Load(ctx, "club")
	if len(snap.Legs) != 0 || len(snap.EventItems("e1")) != 1 {
		t.Fatal("failed flush must not leave partial state")
	}
	// The draft survives for retry.
	fs.failApply = false
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("retry commit: %v", err)
	}
}

func TestRecomputeBudgetIdempotent(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	legID, _ := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{Date: day(12)})
	if err := draft.SetLegVehicle(legID, "v1"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	before, _ := mgr.BudgetItems(ctx, "club", "e1")
	if _, err := mgr.RecomputeBudget(ctx, "club", "e1"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	after, _ := mgr.BudgetItems(ctx, "club", "e1")
	if len(before) != len(after) {
		t.Fatalf("recompute changed item count: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("recompute must be a no-op:\nbefore %+v\nafter  %+v", before[i], after[i])
		}
	}
}

func TestLegsByDirection(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	if _, err := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{}); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if _, err := draft.AddLeg(model.DirectionReturn, model.Waypoint{Date: day(12)}, model.Waypoint{}); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	grouped, err := mgr.LegsByDirection(ctx, "club", "e1")
	if err != nil {
		t.Fatalf("legs by direction: %v", err)
	}
	if len(grouped[model.DirectionOutbound]) != 1 || len(grouped[model.DirectionReturn]) != 1 {
		t.Fatalf("unexpected grouping %+v", grouped)
	}
}

func TestSyncBacklinksRepairsDrift(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	// Simulate drift left behind by a partial failure.
	st.Seed("club", corestore.Batch{
		Vehicles: []model.Vehicle{{ID: "v1", Name: "Minibus", DailyCost: 80, DriverID: "s2", AssignedEvents: []string{"e1"}}},
	})
	mgr, _ := newTestManager(t, st)

	broken, err := mgr.VerifyBacklinks(ctx, "club")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(broken) != 1 || !broken[0].Stale {
		t.Fatalf("expected one stale reference, got %+v", broken)
	}
	changed, err := mgr.SyncBacklinks(ctx, "club")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected one corrected resource, got %d", changed)
	}
	if broken, _ = mgr.VerifyBacklinks(ctx, "club"); len(broken) != 0 {
		t.Fatalf("expected clean state after sync, got %+v", broken)
	}
}

func TestFreelanceStaffBudget(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	mgr, _ := newTestManager(t, st)

	draft, _ := mgr.OpenDraft(ctx, "club", "e1")
	l1, _ := draft.AddLeg(model.DirectionOutbound, model.Waypoint{Date: day(10)}, model.Waypoint{Date: day(11)})
	l2, _ := draft.AddLeg(model.DirectionReturn, model.Waypoint{Date: day(13)}, model.Waypoint{Date: day(14)})
	occ := model.Occupant{PersonID: "s1", Type: model.PersonStaff}
	if err := draft.ToggleOccupant(l1, occ); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := draft.ToggleOccupant(l2, occ); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := draft.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	items, _ := mgr.BudgetItems(ctx, "club", "e1")
	var found *model.BudgetItem
	for i := range items {
		if items[i].ID == "auto-vacataire-e1-s1" {
			found = &items[i]
		}
	}
	if found == nil {
		t.Fatalf("expected freelance item, got %+v", items)
	}
	// Bracket [10,14] is five days at rate 50.
	if found.EstimatedCost != 250 || found.ActualCost != 250 {
		t.Fatalf("expected 250/250, got %v/%v", found.EstimatedCost, found.ActualCost)
	}
}
