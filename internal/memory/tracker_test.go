package memory

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestObserveLifecycle(t *testing.T) {
	tr := NewTracker()

	tr.Observe([]string{"a"}, testNow)
	rec, ok := tr.Record("a")
	if !ok {
		t.Fatal("record not created on first observation")
	}
	if rec.State != StateEntered {
		t.Errorf("expected entered, got %s", rec.State)
	}
	if rec.SeenCycles != 1 {
		t.Errorf("expected 1 seen cycle, got %d", rec.SeenCycles)
	}
	if !tr.IsNew("a") {
		t.Error("item should be new on its first cycle")
	}

	tr.Observe([]string{"a"}, testNow.Add(2*time.Minute))
	rec, _ = tr.Record("a")
	if rec.State != StatePersisting {
		t.Errorf("expected persisting after second cycle, got %s", rec.State)
	}
	if rec.SeenCycles != 2 {
		t.Errorf("expected 2 seen cycles, got %d", rec.SeenCycles)
	}
	if tr.IsNew("a") {
		t.Error("item should no longer be new")
	}
}

func TestResolveRequiresPersisting(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)

	// entered -> resolved is not in the graph.
	if err := tr.Resolve("a", testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	tr.Observe([]string{"a"}, testNow.Add(time.Minute))
	if err := tr.Resolve("a", testNow.Add(2*time.Minute)); err != nil {
		t.Errorf("resolve from persisting failed: %v", err)
	}

	rec, _ := tr.Record("a")
	if rec.State != StateResolved {
		t.Errorf("expected resolved, got %s", rec.State)
	}
	if rec.Trigger.Type != "signal_change" {
		t.Errorf("expected signal_change trigger, got %q", rec.Trigger.Type)
	}
}

func TestResolveUnknownItem(t *testing.T) {
	tr := NewTracker()
	if err := tr.Resolve("ghost", testNow); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
}

func TestResolvedArchivesOnNextCycle(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.Observe([]string{"a"}, testNow.Add(time.Minute))
	if err := tr.Resolve("a", testNow.Add(2*time.Minute)); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// The next cycle archives it even though the id is gone from the feed.
	tr.Observe(nil, testNow.Add(3*time.Minute))
	rec, _ := tr.Record("a")
	if rec.State != StateArchived {
		t.Errorf("expected archived after retention cycle, got %s", rec.State)
	}
}

func TestResurfaceRequiresReason(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.Observe([]string{"a"}, testNow.Add(time.Minute))
	tr.Resolve("a", testNow.Add(2*time.Minute))

	if err := tr.Resurface("a", "", testNow.Add(time.Hour)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("empty reason should be rejected, got %v", err)
	}
	if err := tr.Resurface("ghost", "came back", testNow); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
}

func TestResurfaceRecordsHistory(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.Observe([]string{"a"}, testNow.Add(time.Minute))
	tr.Resolve("a", testNow.Add(2*time.Minute))

	at := testNow.Add(time.Hour)
	if err := tr.Resurface("a", "deadline moved up", at); err != nil {
		t.Fatalf("resurface: %v", err)
	}

	rec, _ := tr.Record("a")
	if rec.State != StateResurfaced {
		t.Errorf("expected resurfaced, got %s", rec.State)
	}
	if !rec.HasAppearedBefore {
		t.Error("HasAppearedBefore not set")
	}
	if rec.PreviousAppearances != 1 {
		t.Errorf("expected 1 previous appearance, got %d", rec.PreviousAppearances)
	}
	if rec.ResurfacedAt == nil || !rec.ResurfacedAt.Equal(at) {
		t.Errorf("ResurfacedAt wrong: %v", rec.ResurfacedAt)
	}
	if rec.ResurfaceReason != "deadline moved up" {
		t.Errorf("reason not recorded: %q", rec.ResurfaceReason)
	}
}

func TestResurfaceClearsSuppression(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.Observe([]string{"a"}, testNow.Add(time.Minute))

	tr.Snooze("a", testNow.Add(24*time.Hour))
	tr.MarkActioned("a")
	if !tr.View().Hidden("a", testNow) {
		t.Fatal("item should be hidden before resurface")
	}

	if err := tr.Resurface("a", "condition changed", testNow.Add(time.Hour)); err != nil {
		t.Fatalf("resurface: %v", err)
	}
	if tr.View().Hidden("a", testNow.Add(time.Hour)) {
		t.Error("resurface must clear both snooze and actioned suppression")
	}
}

func TestArchivedCanResurface(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.Observe([]string{"a"}, testNow.Add(time.Minute))
	tr.Resolve("a", testNow.Add(2*time.Minute))
	tr.Observe(nil, testNow.Add(3*time.Minute)) // archives

	if err := tr.Resurface("a", "it broke again", testNow.Add(48*time.Hour)); err != nil {
		t.Fatalf("resurface from archived: %v", err)
	}
	rec, _ := tr.Record("a")
	if rec.State != StateResurfaced {
		t.Errorf("expected resurfaced, got %s", rec.State)
	}
}

func TestInterventionNeverResolves(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.Observe([]string{"a"}, testNow.Add(time.Minute))

	tr.LogIntervention("a", "action_taken", testNow.Add(2*time.Minute), "pinged the owner")

	rec, _ := tr.Record("a")
	if rec.State != StatePersisting {
		t.Errorf("intervention must not change lifecycle state, got %s", rec.State)
	}
	if len(rec.Interventions) != 1 {
		t.Fatalf("expected 1 intervention, got %d", len(rec.Interventions))
	}
	iv := rec.Interventions[0]
	if iv.Type != "action_taken" || iv.Note != "pinged the owner" {
		t.Errorf("intervention content wrong: %+v", iv)
	}
	if iv.ID == "" {
		t.Error("intervention id missing")
	}

	// Append-only: a second intervention stacks, nothing is replaced.
	tr.LogIntervention("a", "escalated", testNow.Add(3*time.Minute), "")
	rec, _ = tr.Record("a")
	if len(rec.Interventions) != 2 {
		t.Errorf("expected 2 interventions, got %d", len(rec.Interventions))
	}
	if rec.Interventions[0].Type != "action_taken" {
		t.Error("earlier intervention was mutated")
	}
}

func TestInterventionCreatesRecordOnDemand(t *testing.T) {
	tr := NewTracker()
	tr.LogIntervention("fresh", "snoozed", testNow, "")

	rec, ok := tr.Record("fresh")
	if !ok {
		t.Fatal("intervention against unknown id should create a record")
	}
	if rec.Origin.Type != "intervention" {
		t.Errorf("expected intervention origin, got %q", rec.Origin.Type)
	}
}

func TestSweepBoundary(t *testing.T) {
	tr := NewTracker()
	until := testNow.Add(90 * time.Minute)
	tr.Snooze("a", until)

	if n := tr.Sweep(until.Add(-time.Millisecond)); n != 0 {
		t.Errorf("sweep before expiry removed %d entries", n)
	}
	if !tr.View().Hidden("a", until.Add(-time.Millisecond)) {
		t.Error("still-snoozed item should be hidden")
	}

	// Exactly at the reappearance time the entry expires.
	if n := tr.Sweep(until); n != 1 {
		t.Errorf("sweep at expiry should remove 1 entry, removed %d", n)
	}
	if tr.View().Hidden("a", until) {
		t.Error("expired snooze should not hide the item")
	}
}

func TestSweepClockStepBack(t *testing.T) {
	tr := NewTracker()
	tr.Snooze("a", testNow)

	// A sweep observed after the deadline expires the entry even if a
	// later sweep sees an earlier clock.
	if n := tr.Sweep(testNow.Add(time.Minute)); n != 1 {
		t.Fatalf("expected 1 expiry, got %d", n)
	}
	if n := tr.Sweep(testNow.Add(-time.Hour)); n != 0 {
		t.Errorf("second sweep with earlier clock expired %d entries", n)
	}
}

func TestSnoozeLastWriteWins(t *testing.T) {
	tr := NewTracker()
	tr.Snooze("a", testNow.Add(time.Hour))
	tr.Snooze("a", testNow.Add(10*time.Minute))

	if tr.View().Hidden("a", testNow.Add(30*time.Minute)) {
		t.Error("re-snooze should have replaced the earlier, longer window")
	}
}

func TestMarkActionedSupersedesSnooze(t *testing.T) {
	tr := NewTracker()
	tr.Snooze("a", testNow.Add(time.Minute))
	tr.MarkActioned("a")

	// Snooze expiry must not bring an actioned item back.
	tr.Sweep(testNow.Add(time.Hour))
	if !tr.View().Hidden("a", testNow.Add(time.Hour)) {
		t.Error("actioned item reappeared after snooze expiry")
	}
}

func TestActiveDays(t *testing.T) {
	rec := Record{EnteredAt: testNow}

	tests := []struct {
		now  time.Time
		want int
	}{
		{testNow, 0},
		{testNow.Add(23 * time.Hour), 0},
		{testNow.Add(24 * time.Hour), 1},
		{testNow.Add(25 * time.Hour), 1},
		{testNow.Add(10*24*time.Hour + time.Minute), 10},
		{testNow.Add(-time.Hour), 0}, // clock behind entry
	}
	for _, tt := range tests {
		if got := rec.ActiveDays(tt.now); got != tt.want {
			t.Errorf("ActiveDays at %v: expected %d, got %d", tt.now, tt.want, got)
		}
	}

	var zero Record
	if got := zero.ActiveDays(testNow); got != 0 {
		t.Errorf("zero record should have 0 active days, got %d", got)
	}
}

// TestLifecycleMonotonicity drives a tracker with random operations and
// checks that every record only ever holds states reachable through
// the transition graph, and that SeenCycles never decreases.
func TestLifecycleMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := NewTracker()
	ids := []string{"a", "b", "c", "d"}

	lastSeen := make(map[string]int)
	now := testNow

	for step := 0; step < 500; step++ {
		now = now.Add(time.Minute)
		id := ids[rng.Intn(len(ids))]

		switch rng.Intn(5) {
		case 0:
			tr.Observe([]string{id}, now)
		case 1:
			err := tr.Resolve(id, now)
			if err != nil && !errors.Is(err, ErrInvalidTransition) && !errors.Is(err, ErrUnknownItem) {
				t.Fatalf("step %d: unexpected resolve error %v", step, err)
			}
		case 2:
			err := tr.Resurface(id, "changed", now)
			if err != nil && !errors.Is(err, ErrInvalidTransition) && !errors.Is(err, ErrUnknownItem) {
				t.Fatalf("step %d: unexpected resurface error %v", step, err)
			}
		case 3:
			tr.LogIntervention(id, "noted", now, "")
		case 4:
			tr.Observe(ids, now)
		}

		for _, rec := range tr.Records() {
			switch rec.State {
			case StateEntered, StatePersisting, StateResurfaced, StateResolved, StateArchived:
			default:
				t.Fatalf("step %d: record %s in unknown state %q", step, rec.ID, rec.State)
			}
			if rec.SeenCycles < lastSeen[rec.ID] {
				t.Fatalf("step %d: SeenCycles went backwards for %s", step, rec.ID)
			}
			lastSeen[rec.ID] = rec.SeenCycles
		}
	}
}

func TestRecordCopies(t *testing.T) {
	tr := NewTracker()
	tr.Observe([]string{"a"}, testNow)
	tr.LogIntervention("a", "noted", testNow, "")

	rec, _ := tr.Record("a")
	rec.State = StateArchived
	rec.Interventions[0].Type = "tampered"

	fresh, _ := tr.Record("a")
	if fresh.State == StateArchived {
		t.Error("Record() must return a copy, not a reference")
	}
	if fresh.Interventions[0].Type == "tampered" {
		t.Error("intervention slice shared with caller")
	}
}

func TestRestore(t *testing.T) {
	tr := NewTracker()
	at := testNow.Add(-48 * time.Hour)
	tr.Restore([]Record{{
		ID:         "a",
		State:      StatePersisting,
		EnteredAt:  at,
		SeenCycles: 7,
	}})

	rec, ok := tr.Record("a")
	if !ok {
		t.Fatal("restored record missing")
	}
	if rec.State != StatePersisting || rec.SeenCycles != 7 {
		t.Errorf("restored record wrong: %+v", rec)
	}

	// A restored persisting record picks up where it left off.
	tr.Observe([]string{"a"}, testNow)
	rec, _ = tr.Record("a")
	if rec.SeenCycles != 8 {
		t.Errorf("expected 8 seen cycles after restore+observe, got %d", rec.SeenCycles)
	}
}
