// Package memory tracks per-item lifecycle state across refresh
// cycles: how long an item has been around, whether it came back,
// what the user did about it, and which items are snoozed or
// actioned out of the stream.
package memory

import (
	"errors"
	"fmt"
	"time"
)

// State is an item's position in the lifecycle graph.
type State string

const (
	StateEntered    State = "entered"    // first observed this cycle
	StatePersisting State = "persisting" // still here on a later cycle
	StateResurfaced State = "resurfaced" // came back with a changed condition
	StateResolved   State = "resolved"   // underlying condition confirmed cleared
	StateArchived   State = "archived"   // retained, no longer scored
)

// ErrInvalidTransition distinguishes a rejected lifecycle move from an
// applied one. Callers assert on it; nothing ever panics over it.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// ErrUnknownItem reports an id the tracker has never observed.
var ErrUnknownItem = errors.New("unknown item")

// allowedTransitions is the lifecycle graph. Anything not listed is
// rejected. Note the one-way door: entered can only become
// persisting, and resolution is reachable only from persisting, so an
// item can never jump straight to archived.
var allowedTransitions = map[State][]State{
	StateEntered:    {StatePersisting},
	StatePersisting: {StateResolved, StateResurfaced},
	StateResolved:   {StateArchived, StateResurfaced},
	StateArchived:   {StateResurfaced},
	StateResurfaced: {StatePersisting},
}

func transitionAllowed(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Provenance describes where a record came from or what woke it up.
type Provenance struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Intervention is one logged user action against an item. The log is
// append-only; entries are never mutated in place.
type Intervention struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	At   time.Time `json:"timestamp"`
	Note string    `json:"note,omitempty"`
}

// Record is the per-item memory kept across cycles. Items themselves
// are rebuilt every refresh; only this id-keyed state persists.
type Record struct {
	ID                  string         `json:"id"`
	State               State          `json:"lifecycle_state"`
	EnteredAt           time.Time      `json:"entered_at"`
	SeenCycles          int            `json:"seen_cycles"`
	HasAppearedBefore   bool           `json:"has_appeared_before"`
	PreviousAppearances int            `json:"previous_appearances"`
	ResurfacedAt        *time.Time     `json:"resurfaced_at,omitempty"`
	ResurfaceReason     string         `json:"resurface_reason,omitempty"`
	Origin              Provenance     `json:"origin"`
	Trigger             Provenance     `json:"trigger"`
	RankingRationale    string         `json:"ranking_rationale,omitempty"`
	Interventions       []Intervention `json:"interventions,omitempty"`
}

// transition applies a validated lifecycle move.
func (r *Record) transition(to State) error {
	if !transitionAllowed(r.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, to)
	}
	r.State = to
	return nil
}

// ActiveDays is derived, never stored: whole days since the record
// entered memory, floored, never negative.
func (r *Record) ActiveDays(now time.Time) int {
	if r.EnteredAt.IsZero() || now.Before(r.EnteredAt) {
		return 0
	}
	return int(now.Sub(r.EnteredAt).Hours() / 24)
}
