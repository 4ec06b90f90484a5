package model

import "time"

// EventType is the closed set of event categories the pipeline assigns.
type EventType string

// Event types in category-priority declaration order. Ties in category
// scoring break in this order.
const (
	TypeNuclear      EventType = "nuclear"
	TypeMissile      EventType = "missile"
	TypeStrike       EventType = "strike"
	TypeCyber        EventType = "cyber"
	TypeAlert        EventType = "alert"
	TypeDiplomacy    EventType = "diplomacy"
	TypeIntelligence EventType = "intelligence"
	TypeOther        EventType = "other"
)

// Severity is an ordered scale; higher values are more severe.
type Severity int

// Severity levels, low to critical.
const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON encodes severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity name; unknown names map to low.
func (s *Severity) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"critical"`:
		*s = SeverityCritical
	case `"high"`:
		*s = SeverityHigh
	case `"medium"`:
		*s = SeverityMedium
	default:
		*s = SeverityLow
	}
	return nil
}

// CandidateEvent is a single article's extracted, not-yet-merged event
// guess. One per article; ephemeral, consumed by the deduplicator and
// never persisted.
type CandidateEvent struct {
	ID                 string
	EventTime          time.Time
	TemporalConfidence float64
	Type               EventType
	Severity           Severity
	Title              string
	Description        string
	Location           string
	Confidence         float64 // overall, in [0,1]
	Source             string
	Entities           EntityBundle
}

// CanonicalEvent is the result of merging a cluster of similar candidates.
// Sources is the union of the cluster members' sources and is never empty.
type CanonicalEvent struct {
	CandidateEvent

	Sources    []string
	MergedFrom []string
}

// VerificationResult is the verifier's consensus and discrepancy report for
// one canonical event.
type VerificationResult struct {
	Verified          bool      `json:"verified"`
	Confidence        float64   `json:"verification_confidence"`
	ConsensusLocation string    `json:"consensus_location,omitempty"`
	CasualtyMin       int       `json:"casualty_min,omitempty"`
	CasualtyMax       int       `json:"casualty_max,omitempty"`
	MedianTime        time.Time `json:"median_time,omitempty"`
	Discrepancies     []string  `json:"discrepancies,omitempty"`
	Corroborating     []string  `json:"corroborating_sources,omitempty"`
}

// VerifiedEvent is the pipeline's output record, handed to the timeline
// aggregator and any read-only consumer. EventTime serializes as RFC 3339.
type VerifiedEvent struct {
	ID                     string    `json:"id"`
	EventTime              time.Time `json:"event_time"`
	Type                   EventType `json:"type"`
	Severity               Severity  `json:"severity"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	Location               string    `json:"location"`
	Confidence             float64   `json:"confidence"`
	Verified               bool      `json:"verified"`
	VerificationConfidence float64   `json:"verification_confidence"`
	Sources                []string  `json:"sources"`
	MergedFrom             []string  `json:"merged_from,omitempty"`
	Discrepancies          []string  `json:"discrepancies,omitempty"`
}

// NewVerifiedEvent combines a canonical event with its verification result.
func NewVerifiedEvent(c CanonicalEvent, v VerificationResult) VerifiedEvent {
	return VerifiedEvent{
		ID:                     c.ID,
		EventTime:              c.EventTime,
		Type:                   c.Type,
		Severity:               c.Severity,
		Title:                  c.Title,
		Description:            c.Description,
		Location:               c.Location,
		Confidence:             c.Confidence,
		Verified:               v.Verified,
		VerificationConfidence: v.Confidence,
		Sources:                c.Sources,
		MergedFrom:             c.MergedFrom,
		Discrepancies:          v.Discrepancies,
	}
}
