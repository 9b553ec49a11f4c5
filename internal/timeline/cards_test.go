package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

func TestSummarizeMonth(t *testing.T) {
	tm := models.TimelineMonth{
		Month: 3,
		Biomarkers: models.Biomarkers{
			models.KeyBloodPressure: "132/84",
			models.KeyWeight:        "74kg",
			models.KeyStressLevel:   "6/10",
		},
		Messages: []models.Message{
			{AgentName: "Rohan", ContextData: models.ContextData{IsMemberInitiated: true}},
			{AgentName: "Ruby"},
			{AgentName: "Ruby"},
		},
		Events:        []models.HealthEvent{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		AgentActivity: map[string]int{"Rohan": 1, "Ruby": 2},
		AdherenceRate: 0.45,
	}

	c := SummarizeMonth(tm)
	assert.Equal(t, "132", c.Systolic)
	assert.Equal(t, "84", c.Diastolic)
	assert.Equal(t, "74", c.Weight)
	assert.Equal(t, "6", c.Stress)
	assert.Equal(t, 1, c.MemberMessages)
	assert.Equal(t, 2, c.AgentMessages)
	require.NotNil(t, c.MostActive)
	assert.Equal(t, "Ruby", c.MostActive.Name)
	assert.Len(t, c.Events, 2)
	assert.Equal(t, 45, c.AdherencePercent)
	assert.Equal(t, "destructive", c.AdherenceVariant)
}

func TestAdherenceVariant(t *testing.T) {
	assert.Equal(t, "default", AdherenceVariant(0.7))
	assert.Equal(t, "secondary", AdherenceVariant(0.5))
	assert.Equal(t, "destructive", AdherenceVariant(0.49))
	assert.Equal(t, "destructive", AdherenceVariant(math.NaN()))
}

func TestMostActiveEmpty(t *testing.T) {
	assert.Nil(t, MostActive(nil))
}

func TestProgressOverviewNeedsEightMonths(t *testing.T) {
	assert.Nil(t, ProgressOverview(make([]models.TimelineMonth, 3)))
}
