// Package dispatch maps discrete user actions onto lifecycle state
// changes and a side-effect description.
//
// The invariant the whole package exists to enforce: an intervention
// is not a resolution. Acting on an item logs what the user did and
// removes the item from the live stream, but only an external signal
// change (memory.Tracker.Resolve) can move it to resolved.
package dispatch

import (
	"errors"
	"time"

	"github.com/abelbrown/tend/internal/logging"
	"github.com/abelbrown/tend/internal/memory"
	"github.com/abelbrown/tend/internal/model"
	"github.com/abelbrown/tend/internal/notify"
)

// Action identifies one of the fixed user actions. Callers use these
// constants; ad hoc strings fall through to the unhandled path.
type Action string

const (
	ActionSnooze      Action = "snooze"
	ActionDefer       Action = "defer" // alias of snooze
	ActionAcknowledge Action = "acknowledge"
	ActionIntervened  Action = "intervened"
	ActionMarkDone    Action = "mark-done"
	ActionDelegate    Action = "delegate"
)

// SnoozeDuration is how long a snoozed item stays out of the stream.
const SnoozeDuration = 90 * time.Minute

// ErrWrongKind reports an action applied to a variant it doesn't
// support (mark-done on anything but a commitment). The effect is
// still a valid no-op; callers may surface or ignore the error.
var ErrWrongKind = errors.New("action not valid for item kind")

// Effect describes what a dispatch did. It is the dispatcher's whole
// contract: once returned, collaborator outcomes are not our problem.
type Effect struct {
	Action      Action
	ItemID      string
	Applied     bool   // false for unhandled or guarded-off actions
	Resolved    bool   // true only when the item's own status is now authoritative
	Description string // human-readable summary for toasts and logs
}

// CompleteFunc is the collaborator callback that flips a commitment's
// authoritative status to completed.
type CompleteFunc func(id string) error

// Dispatcher applies actions to the tracker and emits effects.
type Dispatcher struct {
	tracker  *memory.Tracker
	notifier notify.Notifier // optional
	complete CompleteFunc    // optional; mark-done degrades to log-only without it
}

// New creates a Dispatcher. notifier and complete may be nil.
func New(tracker *memory.Tracker, notifier notify.Notifier, complete CompleteFunc) *Dispatcher {
	return &Dispatcher{tracker: tracker, notifier: notifier, complete: complete}
}

// Dispatch applies one action to one item at the given instant.
//
// Never panics and never returns a fatal error: unknown actions are
// logged and ignored, and the only error value is ErrWrongKind, which
// still comes with a valid no-op effect.
func (d *Dispatcher) Dispatch(action Action, item model.Item, now time.Time) (Effect, error) {
	effect := Effect{Action: action, ItemID: item.ID()}

	switch action {
	case ActionSnooze, ActionDefer:
		d.tracker.Snooze(item.ID(), now.Add(SnoozeDuration))
		effect.Applied = true
		effect.Description = "snoozed for 90 minutes"
		d.toast("Snoozed", item)

	case ActionAcknowledge:
		// Acknowledged items leave the stream for the session but the
		// lifecycle is untouched: if the signal persists upstream the
		// item is expected to resurface.
		d.tracker.MarkActioned(item.ID())
		effect.Applied = true
		effect.Description = "acknowledged"
		d.toast("Acknowledged", item)

	case ActionIntervened:
		// Same removal as acknowledge, plus the append-only log entry.
		// Distinct on purpose: the intervention log is what a future
		// resurface cites, and it is the record that the user acted.
		d.tracker.MarkActioned(item.ID())
		d.tracker.LogIntervention(item.ID(), "action_taken", now, "")
		effect.Applied = true
		effect.Description = "intervention logged; resolution pending external signal"
		d.toast("Intervention logged", item)

	case ActionMarkDone:
		if item.Kind() != model.KindCommitment {
			effect.Description = "mark-done only applies to commitments"
			logging.Warn("dispatch: mark-done on wrong kind", "id", item.ID(), "kind", item.Kind())
			return effect, ErrWrongKind
		}
		// The one true local resolution: a commitment's own status
		// field is authoritative, so completing it resolves it.
		if d.complete != nil {
			if err := d.complete(item.ID()); err != nil {
				logging.Error("dispatch: complete callback failed", "id", item.ID(), "err", err)
			}
		}
		d.tracker.MarkActioned(item.ID())
		effect.Applied = true
		effect.Resolved = true
		effect.Description = "commitment completed"
		d.toast("Done", item)

	case ActionDelegate:
		// Purely informational: no memory state changes.
		effect.Applied = true
		effect.Description = "delegation noted"
		d.toast("Delegated", item)

	default:
		// Unhandled fallthrough: log and ignore so a malformed action
		// id can never take the UI down.
		effect.Description = "unhandled action"
		logging.Warn("dispatch: unknown action", "action", action, "id", item.ID())
	}

	return effect, nil
}

func (d *Dispatcher) toast(title string, item model.Item) {
	if d.notifier == nil {
		return
	}
	d.notifier.Notify(notify.Toast{
		Title:       title,
		Description: item.Title(),
		Duration:    3 * time.Second,
	})
}
