// Package timeline derives the month-windowed views of a journey: the eight
// timeline months, the chat transcript and the per-month card summaries.
package timeline

import (
	"time"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/models"
)

// Months is the fixed journey length.
const Months = 8

// DefaultAdherence is assumed when a month records no adherence.
const DefaultAdherence = "50%"

// FallbackBiomarkers substitutes for a month with no journey state.
func FallbackBiomarkers() models.Biomarkers {
	return models.Biomarkers{
		models.KeyWeight:           "75kg",
		models.KeyBodyFat:          "18%",
		models.KeyBloodPressure:    "138/88",
		models.KeyRestingHeartRate: "78 bpm",
		models.KeySleepAverage:     "6.2 hours",
		models.KeyStressLevel:      "8/10",
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the ISO timestamps the backend emits, with or without a
// zone offset. Values without a zone are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MessageMonth returns the journey month a message belongs to: its context
// month when set, else the calendar month of its timestamp.
func MessageMonth(msg models.Message) (int, bool) {
	if msg.ContextData.Month != 0 {
		return msg.ContextData.Month, true
	}
	t, ok := ParseTime(msg.Timestamp)
	if !ok {
		return 0, false
	}
	return int(t.Month()), true
}

// EventMonth returns the calendar month of a health event.
func EventMonth(ev models.HealthEvent) (int, bool) {
	t, ok := ParseTime(ev.EventDate)
	if !ok {
		return 0, false
	}
	return int(t.Month()), true
}

// FilterByMonth returns the messages attributed to month. Month 0 means no
// selection and returns every message.
func FilterByMonth(messages []models.Message, month int) []models.Message {
	if month == 0 {
		return messages
	}
	out := make([]models.Message, 0)
	for _, msg := range messages {
		if m, ok := MessageMonth(msg); ok && m == month {
			out = append(out, msg)
		}
	}
	return out
}

// Build returns exactly eight timeline months in ascending order, whatever
// span the data actually covers.
func Build(data *models.JourneyData) []models.TimelineMonth {
	if data == nil {
		return []models.TimelineMonth{}
	}

	months := make([]models.TimelineMonth, 0, Months)
	for m := 1; m <= Months; m++ {
		tm := models.TimelineMonth{
			Month:         m,
			Messages:      FilterByMonth(data.Messages, m),
			Events:        eventsForMonth(data.HealthEvents, m),
			AgentActivity: make(map[string]int),
		}

		adherence := DefaultAdherence
		if state, ok := data.StateForMonth(m); ok && state.Biomarkers != nil {
			tm.Biomarkers = state.Biomarkers
			adherence = state.Biomarkers.Or(models.KeyAdherence, DefaultAdherence)
		} else {
			tm.Biomarkers = FallbackBiomarkers()
		}

		for _, msg := range tm.Messages {
			tm.AgentActivity[msg.AgentName]++
		}

		tm.AdherenceRate = models.Ratio(biomarker.Percent(adherence))
		months = append(months, tm)
	}
	return months
}

func eventsForMonth(events []models.HealthEvent, month int) []models.HealthEvent {
	out := make([]models.HealthEvent, 0)
	for _, ev := range events {
		if m, ok := EventMonth(ev); ok && m == month {
			out = append(out, ev)
		}
	}
	return out
}
