package memory

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abelbrown/tend/internal/logging"
)

// Tracker owns all mutable cross-cycle state: lifecycle records, the
// snooze map and the actioned set. Everything else in the core is
// pure, so this is the only place that needs a lock.
//
// Thread-safety: all methods are safe for concurrent use. The sweep
// timer and the stream's reads both go through here.
type Tracker struct {
	mu       sync.RWMutex
	records  map[string]*Record
	snoozed  map[string]time.Time // id -> reappearance time
	actioned map[string]struct{}  // removed from the stream this session
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		records:  make(map[string]*Record),
		snoozed:  make(map[string]time.Time),
		actioned: make(map[string]struct{}),
	}
}

// Observe records one refresh cycle's worth of item ids and applies
// the automatic lifecycle steps:
//
//   - unseen id: a new record enters memory
//   - entered -> persisting once re-observed on a later cycle
//   - resurfaced -> persisting, same rule
//   - resolved -> archived, the retention step, regardless of whether
//     the id still shows up
func (t *Tracker) Observe(ids []string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range ids {
		rec, ok := t.records[id]
		if !ok {
			t.records[id] = &Record{
				ID:         id,
				State:      StateEntered,
				EnteredAt:  now,
				SeenCycles: 1,
				Origin:     Provenance{Type: "observed", Description: "entered the attention stream"},
			}
			continue
		}

		rec.SeenCycles++
		switch rec.State {
		case StateEntered, StateResurfaced:
			// Still here next time we looked.
			if err := rec.transition(StatePersisting); err != nil {
				logging.Warn("memory: observe transition rejected", "id", id, "err", err)
			}
		}
	}

	// Retention: resolved records archive on the following cycle.
	for _, rec := range t.records {
		if rec.State == StateResolved {
			if err := rec.transition(StateArchived); err != nil {
				logging.Warn("memory: archive transition rejected", "id", rec.ID, "err", err)
			}
		}
	}
}

// Resolve marks an item's underlying condition as cleared. Only an
// external signal calls this; user actions (acknowledge, intervened)
// never do. Returns ErrUnknownItem or ErrInvalidTransition when the
// move isn't legal.
func (t *Tracker) Resolve(id string, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return ErrUnknownItem
	}
	if err := rec.transition(StateResolved); err != nil {
		return err
	}
	rec.Trigger = Provenance{Type: "signal_change", Description: "upstream condition cleared"}
	return nil
}

// Resurface brings a previously-known item back into play with a
// changed condition. The reason is required. Resurfacing also clears
// any snooze or actioned suppression, since the condition changed.
func (t *Tracker) Resurface(id, reason string, now time.Time) error {
	if reason == "" {
		return ErrInvalidTransition
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return ErrUnknownItem
	}
	if err := rec.transition(StateResurfaced); err != nil {
		return err
	}

	at := now
	rec.ResurfacedAt = &at
	rec.ResurfaceReason = reason
	rec.HasAppearedBefore = true
	rec.PreviousAppearances++
	rec.Trigger = Provenance{Type: "resurfaced", Description: reason}

	delete(t.snoozed, id)
	delete(t.actioned, id)
	return nil
}

// Snooze suppresses an item until the given time. Last write wins, so
// re-snoozing simply replaces the reappearance time.
func (t *Tracker) Snooze(id string, until time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snoozed[id] = until
}

// MarkActioned removes an item from the live stream for the session.
// Time never expires these; only a Resurface brings the id back.
func (t *Tracker) MarkActioned(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actioned[id] = struct{}{}
	delete(t.snoozed, id) // actioned supersedes any pending snooze
}

// LogIntervention appends to the item's intervention log. The log
// records that the user did something, not that anything is fixed;
// lifecycle state is untouched. A record is created on demand so an
// intervention against a not-yet-observed item isn't lost.
func (t *Tracker) LogIntervention(id, kind string, now time.Time, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		rec = &Record{
			ID:        id,
			State:     StateEntered,
			EnteredAt: now,
			Origin:    Provenance{Type: "intervention", Description: "first seen via user action"},
		}
		t.records[id] = rec
	}

	rec.Interventions = append(rec.Interventions, Intervention{
		ID:   ulid.Make().String(),
		Type: kind,
		At:   now,
		Note: note,
	})
}

// Sweep drops snooze entries whose reappearance time has passed,
// letting those items back into the next filter pass. Visibility
// only: lifecycle state is untouched. An entry with reappearance <=
// now counts as expired, so a clock stepping backwards between calls
// is harmless.
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	expired := 0
	for id, until := range t.snoozed {
		if !now.Before(until) {
			delete(t.snoozed, id)
			expired++
		}
	}
	return expired
}

// View is an immutable visibility snapshot handed to the stream
// selector. Copies, not references: the tracker can keep mutating
// while a selection is in flight.
type View struct {
	Snoozed  map[string]time.Time
	Actioned map[string]struct{}
}

// Hidden reports whether the id is suppressed at the given instant.
func (v View) Hidden(id string, now time.Time) bool {
	if _, ok := v.Actioned[id]; ok {
		return true
	}
	if until, ok := v.Snoozed[id]; ok && until.After(now) {
		return true
	}
	return false
}

// View snapshots the current snooze map and actioned set.
func (t *Tracker) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v := View{
		Snoozed:  make(map[string]time.Time, len(t.snoozed)),
		Actioned: make(map[string]struct{}, len(t.actioned)),
	}
	for id, until := range t.snoozed {
		v.Snoozed[id] = until
	}
	for id := range t.actioned {
		v.Actioned[id] = struct{}{}
	}
	return v
}

// Record returns a copy of the item's memory record.
func (t *Tracker) Record(id string) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.records[id]
	if !ok {
		return Record{}, false
	}
	out := *rec
	out.Interventions = append([]Intervention(nil), rec.Interventions...)
	return out, true
}

// IsNew reports whether the item is in its first cycle of memory.
func (t *Tracker) IsNew(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[id]
	return ok && rec.State == StateEntered
}

// Records returns copies of every record, for persistence and debug
// views. Order is unspecified.
func (t *Tracker) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		cp := *rec
		cp.Interventions = append([]Intervention(nil), rec.Interventions...)
		out = append(out, cp)
	}
	return out
}

// Restore seeds the tracker from persisted records, typically at
// startup. Existing in-memory records with the same id are replaced.
func (t *Tracker) Restore(records []Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, rec := range records {
		cp := rec
		t.records[rec.ID] = &cp
	}
}
