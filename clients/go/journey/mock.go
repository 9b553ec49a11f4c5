package journey

import (
	"fmt"
	"math"
	"strconv"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// MockMemberID identifies the built-in demo dataset.
const MockMemberID = "mock-member-id"

// MockJourneyData returns the built-in 8-month demo journey. Every biomarker
// improves linearly month over month.
func MockJourneyData() *models.JourneyData {
	data := &models.JourneyData{
		Member: models.Member{
			ID:         MockMemberID,
			Name:       "Rohan Patel",
			Age:        46,
			Occupation: "Regional Head of Sales",
			Location:   "Singapore",
			HealthGoals: []string{
				"Reduce risk of heart disease",
				"Enhance cognitive function",
				"Implement health screenings",
			},
		},
		Agents: []models.Agent{
			{ID: "1", Name: "Dr. Warren", Role: "The Medical Strategist", Specialty: "Medical oversight"},
			{ID: "2", Name: "Ruby", Role: "The Concierge / Orchestrator", Specialty: "Logistics"},
			{ID: "3", Name: "Advik", Role: "The Performance Scientist", Specialty: "Analytics"},
			{ID: "4", Name: "Carla", Role: "The Nutritionist", Specialty: "Nutrition"},
			{ID: "5", Name: "Rachel", Role: "The PT / Physiotherapist", Specialty: "Fitness"},
			{ID: "6", Name: "Neel", Role: "The Concierge Lead / Relationship Manager", Specialty: "Coordination"},
		},
		Messages: []models.Message{
			{
				ID:          "1",
				MemberID:    MockMemberID,
				AgentID:     "1",
				AgentName:   "Rohan",
				Content:     "Quick question - is my resting HR of 65 good or should be lower?",
				MessageType: "member_question",
				Timestamp:   "2024-01-15T14:30:00Z",
				ContextData: models.ContextData{
					Day:               15,
					Month:             1,
					IsMemberInitiated: true,
					Sender:            "Rohan",
					Urgency:           "medium",
				},
			},
			{
				ID:          "2",
				MemberID:    MockMemberID,
				AgentID:     "1",
				AgentName:   "Dr. Warren",
				Content:     "That's actually quite good! A resting HR of 65 shows your cardiovascular fitness is improving. The target range is 60-100, so you're in excellent territory.",
				MessageType: "agent_response",
				Timestamp:   "2024-01-15T14:45:00Z",
				ContextData: models.ContextData{
					Day:    15,
					Month:  1,
					Sender: "Dr. Warren",
				},
			},
		},
		HealthEvents: []models.HealthEvent{
			{
				ID:          "1",
				MemberID:    MockMemberID,
				EventType:   "quarterly_diagnostic",
				EventDate:   "2024-03-15",
				Description: "Q1 Comprehensive Health Panel",
				Results: models.DisplayMap{
					"blood_panel":      "Improved lipid profile",
					"body_composition": "2kg weight loss",
					"cardiovascular":   "Improved resting heart rate",
				},
			},
		},
	}

	for i := 0; i < 8; i++ {
		f := float64(i)
		data.JourneyStates = append(data.JourneyStates, models.JourneyState{
			ID:       fmt.Sprintf("state-%d", i+1),
			MemberID: MockMemberID,
			Month:    i + 1,
			Biomarkers: models.Biomarkers{
				models.KeyWeight:           num(75-f*0.5) + "kg",
				models.KeyBodyFat:          num(18-f*0.4) + "%",
				models.KeyBloodPressure:    fmt.Sprintf("%d/%d", 138-i*3, 88-i*2),
				models.KeyRestingHeartRate: fmt.Sprintf("%d bpm", 78-i*2),
				models.KeySleepAverage:     num(6.2+f*0.2) + " hours",
				models.KeyStressLevel:      fmt.Sprintf("%d/10", 8-i),
				models.KeyAdherence:        fmt.Sprintf("%d%%", 35+i*5),
			},
			CurrentInterventions: []any{},
			ProgressMetrics:      map[string]any{},
		})
	}

	data.Normalize()
	return data
}

// num formats a synthetic reading with at most one decimal.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
