// Package ui defines the bubbletea messages exchanged between the
// engine and the views. Kept separate from the views so the engine
// can post messages without importing any rendering code.
package ui

import (
	"github.com/abelbrown/tend/internal/dispatch"
	"github.com/abelbrown/tend/internal/model"
	"github.com/abelbrown/tend/internal/stream"
)

// CycleComplete is posted after each refresh cycle.
type CycleComplete struct {
	Selection   stream.Selection
	NextMeeting *model.Meeting // shown in the banner, excluded from the stream
	Err         error
}

// SweepDone is posted after a snooze sweep that released items, so
// the view knows the stream is stale.
type SweepDone struct {
	Expired int
}

// RefreshTick triggers a manual refresh from the view.
type RefreshTick struct{}

// ActionDone is sent after a user action has been dispatched.
type ActionDone struct {
	Effect dispatch.Effect
	Err    error
}
