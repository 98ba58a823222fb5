// Package model defines the attention item types that flow through the stream.
package model

import "time"

// Kind discriminates the four attention item variants.
type Kind string

const (
	KindAlert        Kind = "alert"
	KindCommitment   Kind = "commitment"
	KindMeeting      Kind = "meeting"
	KindRelationship Kind = "relationship"
)

// Level is a three-step ordinal used for probability, impact and severity.
type Level int

const (
	LevelLow    Level = 1
	LevelMedium Level = 2
	LevelHigh   Level = 3
)

// ParseLevel maps the wire strings to a Level. Unknown strings map to zero.
func ParseLevel(s string) Level {
	switch s {
	case "high":
		return LevelHigh
	case "medium":
		return LevelMedium
	case "low":
		return LevelLow
	}
	return 0
}

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	}
	return "unknown"
}

// FocusCategory groups items by the kind of attention they compete for.
type FocusCategory string

const (
	FocusPulse    FocusCategory = "pulse"    // happening right now
	FocusFriction FocusCategory = "friction" // blocked or degrading
	FocusHorizon  FocusCategory = "horizon"  // upcoming, preparable
)

// Evidence is a pointer to the material backing an item's claim.
type Evidence struct {
	Label  string
	Source string // symbolic destination tag for the navigator
}

// Meta is the shared optional metadata block carried by every variant.
// Zero values mean "not declared" and scorers treat them as neutral.
type Meta struct {
	Probability       Level
	Impact            Level
	MemoryRationale   string
	IsNew             bool
	IsEscalated       bool
	NeedsIntervention bool
	NeedsDecision     bool
	Collaborators     []string
	Evidence          []Evidence
	Focus             FocusCategory
}

// Item is the tagged union of everything that can appear in the stream.
// The four variants are the only implementations; Kind never changes
// after normalization.
type Item interface {
	ID() string
	Kind() Kind
	Title() string
	Metadata() Meta

	// item is the sealing marker: only this package can add variants,
	// which keeps kind switches in scoring and dispatch exhaustive.
	item()
}

// CommitmentStatus is the authoritative completion state of a commitment.
type CommitmentStatus string

const (
	CommitmentPending   CommitmentStatus = "pending"
	CommitmentCompleted CommitmentStatus = "completed"
	CommitmentOverdue   CommitmentStatus = "overdue"
)

// MeetingStatus is the scheduling state of a meeting brief.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Alert is a signal that something in the user's world needs a look.
type Alert struct {
	AlertID   string
	Headline  string
	Severity  Level
	Timestamp time.Time
	Source    string
	Meta      Meta
}

func (a Alert) ID() string     { return a.AlertID }
func (a Alert) Kind() Kind     { return KindAlert }
func (a Alert) Title() string  { return a.Headline }
func (a Alert) Metadata() Meta { return a.Meta }
func (a Alert) item()          {}

// Commitment is something the user (or a delegate) promised to do.
type Commitment struct {
	CommitmentID string
	Description  string
	Assignee     string
	DueDate      time.Time
	Status       CommitmentStatus
	Priority     Level
	Meta         Meta
}

func (c Commitment) ID() string     { return c.CommitmentID }
func (c Commitment) Kind() Kind     { return KindCommitment }
func (c Commitment) Title() string  { return c.Description }
func (c Commitment) Metadata() Meta { return c.Meta }
func (c Commitment) item()          {}

// Meeting is an upcoming calendar entry with a prepared brief.
type Meeting struct {
	MeetingID string
	Subject   string
	Time      time.Time
	Attendees []string
	Status    MeetingStatus
	Meta      Meta
}

func (m Meeting) ID() string     { return m.MeetingID }
func (m Meeting) Kind() Kind     { return KindMeeting }
func (m Meeting) Title() string  { return m.Subject }
func (m Meeting) Metadata() Meta { return m.Meta }
func (m Meeting) item()          {}

// Relationship is a reminder that a contact is going cold.
type Relationship struct {
	RelationshipID   string
	ContactName      string
	DaysSinceContact int
	Strength         Level
	Meta             Meta
}

func (r Relationship) ID() string     { return r.RelationshipID }
func (r Relationship) Kind() Kind     { return KindRelationship }
func (r Relationship) Title() string  { return r.ContactName }
func (r Relationship) Metadata() Meta { return r.Meta }
func (r Relationship) item()          {}
