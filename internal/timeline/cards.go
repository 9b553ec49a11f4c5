package timeline

import (
	"math"
	"sort"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/models"
)

// AgentCount is an agent's message tally.
type AgentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Card is the compact per-month summary on the timeline grid.
type Card struct {
	Month            int                  `json:"month"`
	Systolic         string               `json:"systolic"`
	Diastolic        string               `json:"diastolic"`
	Weight           string               `json:"weight"`
	Stress           string               `json:"stress"`
	MemberMessages   int                  `json:"member_messages"`
	AgentMessages    int                  `json:"agent_messages"`
	MostActive       *AgentCount          `json:"most_active,omitempty"`
	Events           []models.HealthEvent `json:"events"`
	AdherencePercent int                  `json:"adherence_percent"`
	AdherenceVariant string               `json:"adherence_variant"`
}

// SummarizeMonth builds the card for a timeline month. Only the first two
// events are kept.
func SummarizeMonth(tm models.TimelineMonth) Card {
	sys, dia := biomarker.DisplayBloodPressure(tm.Biomarkers)
	c := Card{
		Month:            tm.Month,
		Systolic:         sys,
		Diastolic:        dia,
		Weight:           biomarker.DisplayWeight(tm.Biomarkers),
		Stress:           biomarker.DisplayStress(tm.Biomarkers),
		MostActive:       MostActive(tm.AgentActivity),
		AdherenceVariant: AdherenceVariant(float64(tm.AdherenceRate)),
	}

	for _, msg := range tm.Messages {
		if msg.ContextData.IsMemberInitiated {
			c.MemberMessages++
		}
	}
	c.AgentMessages = len(tm.Messages) - c.MemberMessages

	c.Events = tm.Events
	if len(c.Events) > 2 {
		c.Events = c.Events[:2]
	}

	if tm.AdherenceRate.Valid() {
		c.AdherencePercent = int(math.Round(float64(tm.AdherenceRate) * 100))
	}
	return c
}

// MostActive returns the agent with the most messages, ties broken by name.
func MostActive(activity map[string]int) *AgentCount {
	if len(activity) == 0 {
		return nil
	}
	names := make([]string, 0, len(activity))
	for n := range activity {
		names = append(names, n)
	}
	sort.Strings(names)

	best := AgentCount{Name: names[0], Count: activity[names[0]]}
	for _, n := range names[1:] {
		if activity[n] > best.Count {
			best = AgentCount{Name: n, Count: activity[n]}
		}
	}
	return &best
}

// AdherenceVariant maps an adherence rate to a badge style.
func AdherenceVariant(rate float64) string {
	switch {
	case rate >= 0.7:
		return "default"
	case rate >= 0.5:
		return "secondary"
	default:
		return "destructive"
	}
}

// Change is a start/end pair on the progress overview.
type Change struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ProgressOverview compares the first and last timeline month. It returns
// nil unless all eight months are present.
func ProgressOverview(months []models.TimelineMonth) []Change {
	if len(months) < Months {
		return nil
	}
	start, end := months[0].Biomarkers, months[Months-1].Biomarkers
	return []Change{
		{Label: "Blood Pressure", Start: start.Get(models.KeyBloodPressure), End: end.Get(models.KeyBloodPressure)},
		{Label: "Weight", Start: start.Get(models.KeyWeight), End: end.Get(models.KeyWeight)},
		{Label: "Stress Level", Start: start.Get(models.KeyStressLevel), End: end.Get(models.KeyStressLevel)},
	}
}
