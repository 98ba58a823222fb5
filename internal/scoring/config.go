package scoring

import "time"

// Class is the intrinsic urgency class of an item, derived from its
// kind and status. The base ladder lives in Config.BaseWeights so the
// policy can be tuned and tested without touching control flow.
type Class string

const (
	ClassRiskAlert        Class = "risk_alert"        // high-severity alert
	ClassCommitmentLate   Class = "commitment_late"   // overdue commitment
	ClassMeetingImminent  Class = "meeting_imminent"  // starts within the window
	ClassAlert            Class = "alert"             // everything-else alert
	ClassRelationshipCold Class = "relationship_cold" // contact past cooling threshold
	ClassCommitmentOpen   Class = "commitment_open"   // pending commitment
	ClassRelationship     Class = "relationship"      // contact still warm
	ClassMeetingFar       Class = "meeting_far"       // scheduled, not soon
)

// Config is the scoring policy table. All contributions are additive
// and the final score is clamped to [0, 100].
//
// Escalated and "new" flags deliberately do not appear here: they are
// read downstream for UI emphasis only. Scoring them as well would
// double-count the condition that set them.
type Config struct {
	// BaseWeights is the type-base urgency ladder, keyed by Class.
	BaseWeights map[Class]float64

	// DeclaredUnit scales the probability x impact product (1..9).
	DeclaredUnit float64

	// InterventionBoost and DecisionBoost are fixed additions for the
	// needs-intervention / needs-decision flags.
	InterventionBoost float64
	DecisionBoost     float64

	// MeetingWindow is how close a meeting must be to count as
	// imminent. MeetingProximityMax is the extra score a meeting
	// earns as its start approaches zero.
	MeetingWindow       time.Duration
	MeetingProximityMax float64

	// OverduePerDay accrues per day past due, capped at OverdueCap.
	OverduePerDay float64
	OverdueCap    float64

	// CoolingThresholdDays is when a relationship counts as cold.
	// ContactPerDay accrues per day since last contact, capped at
	// ContactCap. Monotonic in days-since-contact either way.
	CoolingThresholdDays int
	ContactPerDay        float64
	ContactCap           float64
}

// DefaultConfig returns the stock scoring policy.
// The ladder: risk > overdue commitment > imminent meeting > other
// alerts > cooling relationship > open commitment > warm relationship
// > far-out meeting.
func DefaultConfig() Config {
	return Config{
		BaseWeights: map[Class]float64{
			ClassRiskAlert:        62,
			ClassCommitmentLate:   55,
			ClassMeetingImminent:  48,
			ClassAlert:            44,
			ClassRelationshipCold: 40,
			ClassCommitmentOpen:   34,
			ClassRelationship:     28,
			ClassMeetingFar:       22,
		},
		DeclaredUnit:         1.5,
		InterventionBoost:    8,
		DecisionBoost:        6,
		MeetingWindow:        2 * time.Hour,
		MeetingProximityMax:  10,
		OverduePerDay:        2,
		OverdueCap:           10,
		CoolingThresholdDays: 30,
		ContactPerDay:        0.25,
		ContactCap:           12,
	}
}
