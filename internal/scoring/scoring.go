// Package scoring computes a single comparable priority score for
// heterogeneous attention items.
//
// Design principles (same as the feed rankers this grew out of):
// - Scoring is a pure function: (item, now) -> score
// - The urgency ladder is a data table, not inline conditionals
// - Scores are clamped to [0, 100]; higher means more urgent
// - The scorer never mutates items and never fails
package scoring

import (
	"math"
	"time"

	"github.com/abelbrown/tend/internal/model"
)

// Scorer scores items against a Config policy table.
// Stateless and safe for concurrent use.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer. A zero-value Config would score
// everything 0, so callers normally pass DefaultConfig().
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns the item's priority in [0, 100] at the given instant.
// Total over any well-formed item: unknown variants score 0 rather
// than failing.
func (s *Scorer) Score(item model.Item, now time.Time) float64 {
	score := s.cfg.BaseWeights[s.Classify(item, now)]
	score += s.declared(item.Metadata())
	score += s.timePressure(item, now)
	return clamp(score, 0, 100)
}

// Classify derives the urgency class used to index the base ladder.
func (s *Scorer) Classify(item model.Item, now time.Time) Class {
	switch v := item.(type) {
	case model.Alert:
		if v.Severity == model.LevelHigh {
			return ClassRiskAlert
		}
		return ClassAlert
	case model.Commitment:
		if v.Status == model.CommitmentOverdue {
			return ClassCommitmentLate
		}
		return ClassCommitmentOpen
	case model.Meeting:
		if until := v.Time.Sub(now); until >= 0 && until <= s.cfg.MeetingWindow {
			return ClassMeetingImminent
		}
		return ClassMeetingFar
	case model.Relationship:
		if v.DaysSinceContact >= s.cfg.CoolingThresholdDays {
			return ClassRelationshipCold
		}
		return ClassRelationship
	}
	// Unreachable while model.Item stays sealed.
	return ClassAlert
}

// declared converts the probability x impact ordinals (1..3 each)
// into an additive adjustment, plus the fixed flag boosts.
// Undeclared levels contribute nothing.
func (s *Scorer) declared(m model.Meta) float64 {
	var adj float64
	if m.Probability > 0 && m.Impact > 0 {
		adj += float64(m.Probability) * float64(m.Impact) * s.cfg.DeclaredUnit
	}
	if m.NeedsIntervention {
		adj += s.cfg.InterventionBoost
	}
	if m.NeedsDecision {
		adj += s.cfg.DecisionBoost
	}
	return adj
}

// timePressure is the variant-specific urgency ramp.
func (s *Scorer) timePressure(item model.Item, now time.Time) float64 {
	switch v := item.(type) {
	case model.Commitment:
		if v.Status != model.CommitmentOverdue || v.DueDate.IsZero() {
			return 0
		}
		late := now.Sub(v.DueDate)
		if late <= 0 {
			return 0
		}
		days := late.Hours() / 24
		return math.Min(days*s.cfg.OverduePerDay, s.cfg.OverdueCap)

	case model.Meeting:
		until := v.Time.Sub(now)
		if until < 0 || until > s.cfg.MeetingWindow {
			return 0
		}
		// Linear ramp: window edge -> 0, start time -> max.
		frac := 1 - float64(until)/float64(s.cfg.MeetingWindow)
		return frac * s.cfg.MeetingProximityMax

	case model.Relationship:
		days := float64(v.DaysSinceContact)
		if days < 0 {
			days = 0
		}
		return math.Min(days*s.cfg.ContactPerDay, s.cfg.ContactCap)
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
