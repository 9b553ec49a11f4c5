package models

import "encoding/json"

// Biomarker keys as the backend names them.
const (
	KeyWeight           = "weight"
	KeyBodyFat          = "body_fat"
	KeyBloodPressure    = "blood_pressure"
	KeyRestingHeartRate = "resting_heart_rate"
	KeySleepAverage     = "sleep_average"
	KeyStressLevel      = "stress_level"
	KeyAdherence        = "adherence_this_month"
)

// Biomarkers is a monthly snapshot where every value is a display string,
// e.g. "138/88", "75kg" or "8/10".
type Biomarkers map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (b *Biomarkers) UnmarshalJSON(data []byte) error {
	out, err := decodeDisplay(data)
	if err != nil {
		return err
	}
	*b = out
	return nil
}

// Get returns the raw value for key or "" when absent.
func (b Biomarkers) Get(key string) string {
	if b == nil {
		return ""
	}
	return b[key]
}

// Or returns the raw value for key, or fallback when absent or empty.
func (b Biomarkers) Or(key, fallback string) string {
	if v := b.Get(key); v != "" {
		return v
	}
	return fallback
}

// Keys returns the biomarker keys in sorted order.
func (b Biomarkers) Keys() []string {
	return sortedKeys(b)
}

// JourneyState is one member's biomarker snapshot for one month.
type JourneyState struct {
	ID                   string         `json:"id,omitempty"`
	MemberID             string         `json:"member_id,omitempty"`
	Month                int            `json:"month"`
	Biomarkers           Biomarkers     `json:"biomarkers"`
	CurrentInterventions []any          `json:"current_interventions"`
	ProgressMetrics      map[string]any `json:"progress_metrics"`
}

// UnmarshalJSON accepts both the timeline spelling (current_interventions,
// progress_metrics) and the aggregate endpoint spelling (interventions, metrics).
func (s *JourneyState) UnmarshalJSON(data []byte) error {
	type plain JourneyState
	var aux struct {
		plain
		Interventions []any          `json:"interventions"`
		Metrics       map[string]any `json:"metrics"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = JourneyState(aux.plain)
	if s.CurrentInterventions == nil {
		s.CurrentInterventions = aux.Interventions
	}
	if s.ProgressMetrics == nil {
		s.ProgressMetrics = aux.Metrics
	}
	return nil
}
