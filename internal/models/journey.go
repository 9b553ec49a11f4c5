package models

import (
	"encoding/json"
	"math"
)

// JourneyData is the complete dataset the dashboard renders.
type JourneyData struct {
	Member        Member         `json:"member"`
	Agents        []Agent        `json:"agents"`
	Messages      []Message      `json:"messages"`
	HealthEvents  []HealthEvent  `json:"health_events"`
	JourneyStates []JourneyState `json:"journey_states"`
}

// Normalize replaces nil collections with empty ones.
func (d *JourneyData) Normalize() {
	if d.Agents == nil {
		d.Agents = []Agent{}
	}
	if d.Messages == nil {
		d.Messages = []Message{}
	}
	if d.HealthEvents == nil {
		d.HealthEvents = []HealthEvent{}
	}
	if d.JourneyStates == nil {
		d.JourneyStates = []JourneyState{}
	}
	if d.Member.HealthGoals == nil {
		d.Member.HealthGoals = []string{}
	}
}

// StateForMonth returns the first journey state recorded for month.
func (d *JourneyData) StateForMonth(month int) (*JourneyState, bool) {
	for i := range d.JourneyStates {
		if d.JourneyStates[i].Month == month {
			return &d.JourneyStates[i], true
		}
	}
	return nil, false
}

// MessageByID finds a message by its identifier.
func (d *JourneyData) MessageByID(id string) (*Message, bool) {
	for i := range d.Messages {
		if d.Messages[i].ID == id {
			return &d.Messages[i], true
		}
	}
	return nil, false
}

// Ratio is a fraction in [0,1]. NaN marks a value that could not be parsed
// and is encoded as JSON null.
type Ratio float64

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Valid reports whether the ratio holds a number.
func (r Ratio) Valid() bool {
	return !math.IsNaN(float64(r)) && !math.IsInf(float64(r), 0)
}

// TimelineMonth is the derived per-month aggregate shown on the timeline.
type TimelineMonth struct {
	Month         int            `json:"month"`
	Biomarkers    Biomarkers     `json:"biomarkers"`
	Messages      []Message      `json:"messages"`
	Events        []HealthEvent  `json:"events"`
	AgentActivity map[string]int `json:"agent_activity"`
	AdherenceRate Ratio          `json:"adherence_rate"`
}
