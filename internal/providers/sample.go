package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abelbrown/tend/internal/model"
)

// SampleSet returns a Set backed by static sample data, the stand-in
// for real integrations. Ids are minted once at construction so
// memory state keys stay stable across cycles within a session.
func SampleSet(now time.Time) Set {
	return Set{
		Alerts:        newSampleAlerts(now),
		Commitments:   newSampleCommitments(now),
		Meetings:      newSampleMeetings(now),
		Relationships: newSampleRelationships(),
	}
}

type sampleAlerts struct {
	alerts []model.Alert
}

func newSampleAlerts(now time.Time) *sampleAlerts {
	return &sampleAlerts{alerts: []model.Alert{
		{
			AlertID:   ulid.Make().String(),
			Headline:  "Quarterly renewal at risk: Meridian account has gone quiet mid-negotiation",
			Severity:  model.LevelHigh,
			Timestamp: now.Add(-2 * time.Hour),
			Source:    "crm",
			Meta: model.Meta{
				Probability:       model.LevelHigh,
				Impact:            model.LevelHigh,
				NeedsIntervention: true,
				Focus:             model.FocusFriction,
				Collaborators:     []string{"Dana"},
				Evidence:          []model.Evidence{{Label: "Last thread", Source: "contacts"}},
			},
		},
		{
			AlertID:   ulid.Make().String(),
			Headline:  "Build pipeline flaking on the release branch",
			Severity:  model.LevelMedium,
			Timestamp: now.Add(-45 * time.Minute),
			Source:    "ci",
			Meta: model.Meta{
				Probability: model.LevelMedium,
				Impact:      model.LevelMedium,
				Focus:       model.FocusPulse,
			},
		},
	}}
}

func (s *sampleAlerts) Alerts(ctx context.Context) ([]model.Alert, error) {
	return append([]model.Alert(nil), s.alerts...), nil
}

type sampleCommitments struct {
	mu          sync.Mutex
	commitments []model.Commitment
}

func newSampleCommitments(now time.Time) *sampleCommitments {
	return &sampleCommitments{commitments: []model.Commitment{
		{
			CommitmentID: ulid.Make().String(),
			Description:  "Send revised proposal to Meridian",
			Assignee:     "me",
			DueDate:      now.Add(-26 * time.Hour),
			Status:       model.CommitmentOverdue,
			Priority:     model.LevelHigh,
			Meta: model.Meta{
				Impact:        model.LevelHigh,
				Probability:   model.LevelMedium,
				NeedsDecision: true,
				Focus:         model.FocusFriction,
			},
		},
		{
			CommitmentID: ulid.Make().String(),
			Description:  "Review onboarding doc for the new hire",
			Assignee:     "me",
			DueDate:      now.Add(48 * time.Hour),
			Status:       model.CommitmentPending,
			Priority:     model.LevelMedium,
			Meta:         model.Meta{Focus: model.FocusHorizon},
		},
	}}
}

func (s *sampleCommitments) Commitments(ctx context.Context) ([]model.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Commitment(nil), s.commitments...), nil
}

func (s *sampleCommitments) Complete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.commitments {
		if s.commitments[i].CommitmentID == id {
			s.commitments[i].Status = model.CommitmentCompleted
			return nil
		}
	}
	return fmt.Errorf("complete: no commitment %s", id)
}

type sampleMeetings struct {
	meetings []model.Meeting
}

func newSampleMeetings(now time.Time) *sampleMeetings {
	return &sampleMeetings{meetings: []model.Meeting{
		{
			MeetingID: ulid.Make().String(),
			Subject:   "Meridian renewal sync",
			Time:      now.Add(50 * time.Minute),
			Attendees: []string{"Dana", "Priya"},
			Status:    model.MeetingScheduled,
			Meta:      model.Meta{Focus: model.FocusPulse, Impact: model.LevelHigh},
		},
		{
			MeetingID: ulid.Make().String(),
			Subject:   "Platform roadmap review",
			Time:      now.Add(28 * time.Hour),
			Attendees: []string{"Sam"},
			Status:    model.MeetingScheduled,
			Meta:      model.Meta{Focus: model.FocusHorizon},
		},
	}}
}

func (s *sampleMeetings) Meetings(ctx context.Context) ([]model.Meeting, error) {
	return append([]model.Meeting(nil), s.meetings...), nil
}

type sampleRelationships struct {
	relationships []model.Relationship
}

func newSampleRelationships() *sampleRelationships {
	return &sampleRelationships{relationships: []model.Relationship{
		{
			RelationshipID:   ulid.Make().String(),
			ContactName:      "Alex Moreno",
			DaysSinceContact: 41,
			Strength:         model.LevelHigh,
			Meta: model.Meta{
				MemoryRationale: "championed the last renewal",
				Focus:           model.FocusHorizon,
			},
		},
		{
			RelationshipID:   ulid.Make().String(),
			ContactName:      "Jordan Liu",
			DaysSinceContact: 9,
			Strength:         model.LevelMedium,
			Meta:             model.Meta{Focus: model.FocusHorizon},
		},
	}}
}

func (s *sampleRelationships) Relationships(ctx context.Context) ([]model.Relationship, error) {
	return append([]model.Relationship(nil), s.relationships...), nil
}
