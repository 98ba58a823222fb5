// Package normalize flattens heterogeneous source records into one
// ordered list of attention items.
//
// The concatenation order is load-bearing: the scorer breaks ties by
// input position, so relationships come first, then open commitments,
// then alerts, then scheduled meetings. Reordering here changes which
// of two equally-scored items the user sees first.
package normalize

import (
	"github.com/abelbrown/tend/internal/logging"
	"github.com/abelbrown/tend/internal/model"
)

// Sources carries one refresh cycle's raw records, read-only.
type Sources struct {
	Relationships []model.Relationship
	Commitments   []model.Commitment
	Alerts        []model.Alert
	Meetings      []model.Meeting
}

// Options tunes a single Normalize call.
type Options struct {
	// ExcludeMeetingID drops the meeting already shown in the
	// next-meeting banner so it doesn't appear twice.
	ExcludeMeetingID string
}

// Normalize produces the cycle's item list. Pure: no side effects
// beyond debug logs for dropped records.
//
// Records without an id are malformed and skipped; upstream contracts
// say this shouldn't happen, so it's a non-fatal skip, not an error.
func Normalize(src Sources, opts Options) []model.Item {
	items := make([]model.Item, 0,
		len(src.Relationships)+len(src.Commitments)+len(src.Alerts)+len(src.Meetings))

	for _, r := range src.Relationships {
		if r.RelationshipID == "" {
			logging.Debug("normalize: dropping relationship without id", "contact", r.ContactName)
			continue
		}
		items = append(items, r)
	}

	for _, c := range src.Commitments {
		if c.CommitmentID == "" {
			logging.Debug("normalize: dropping commitment without id", "description", c.Description)
			continue
		}
		// Completed commitments never enter the stream.
		if c.Status == model.CommitmentCompleted {
			continue
		}
		items = append(items, c)
	}

	for _, a := range src.Alerts {
		if a.AlertID == "" {
			logging.Debug("normalize: dropping alert without id", "headline", a.Headline)
			continue
		}
		items = append(items, a)
	}

	for _, m := range src.Meetings {
		if m.MeetingID == "" {
			logging.Debug("normalize: dropping meeting without id", "subject", m.Subject)
			continue
		}
		if m.Status != model.MeetingScheduled {
			continue
		}
		if opts.ExcludeMeetingID != "" && m.MeetingID == opts.ExcludeMeetingID {
			continue
		}
		items = append(items, m)
	}

	return items
}
