// Package providers defines the read-only sources that feed each
// refresh cycle, and sample in-memory implementations standing in for
// the real CRM/calendar/alerting integrations.
package providers

import (
	"context"

	"github.com/abelbrown/tend/internal/model"
)

// AlertSource supplies current alerts.
type AlertSource interface {
	Alerts(ctx context.Context) ([]model.Alert, error)
}

// CommitmentSource supplies open commitments and owns their
// authoritative completion state.
type CommitmentSource interface {
	Commitments(ctx context.Context) ([]model.Commitment, error)

	// Complete flips the commitment's status to completed, removing
	// it from future cycles. The mark-done action's collaborator.
	Complete(id string) error
}

// MeetingSource supplies upcoming meeting briefs.
type MeetingSource interface {
	Meetings(ctx context.Context) ([]model.Meeting, error)
}

// RelationshipSource supplies relationship-maintenance reminders.
type RelationshipSource interface {
	Relationships(ctx context.Context) ([]model.Relationship, error)
}

// Set bundles one of each source for the engine.
type Set struct {
	Alerts        AlertSource
	Commitments   CommitmentSource
	Meetings      MeetingSource
	Relationships RelationshipSource
}
