package biomarker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

func syntheticStates() []models.JourneyState {
	states := make([]models.JourneyState, 0, 8)
	for i := 0; i < 8; i++ {
		states = append(states, models.JourneyState{
			Month: i + 1,
			Biomarkers: models.Biomarkers{
				models.KeyWeight:           fmt.Sprintf("%gkg", 75-float64(i)*0.5),
				models.KeyBloodPressure:    fmt.Sprintf("%d/%d", 138-i*3, 88-i*2),
				models.KeySleepAverage:     fmt.Sprintf("%g hours", 6.2+float64(i)*0.2),
				models.KeyStressLevel:      fmt.Sprintf("%d/10", 8-i),
				models.KeyAdherence:        fmt.Sprintf("%d%%", 35+i*5),
				models.KeyRestingHeartRate: fmt.Sprintf("%d bpm", 78-i*2),
			},
		})
	}
	return states
}

func TestWeightTrendIsImprovement(t *testing.T) {
	points := Series(syntheticStates(), Weight)
	require.Len(t, points, 8)
	assert.Equal(t, 75.0, points[0].Value)
	assert.Equal(t, 71.5, points[7].Value)

	trend, ok := ComputeTrend(points, Weight)
	require.True(t, ok)
	assert.InDelta(t, -3.5, trend.Change, 1e-9)
	assert.Less(t, trend.PercentChange, 0.0)
	assert.True(t, trend.IsImprovement)
}

func TestDirectionRules(t *testing.T) {
	states := syntheticStates()
	for _, key := range []string{BloodPressureSys, StressLevel, Weight} {
		trend, ok := ComputeTrend(Series(states, key), key)
		require.True(t, ok, key)
		assert.True(t, trend.IsImprovement, key)
	}

	trend, _ := ComputeTrend(Series(states, SleepHours), SleepHours)
	assert.True(t, trend.IsImprovement)
	trend, _ = ComputeTrend(Series(states, Adherence), Adherence)
	assert.True(t, trend.IsImprovement)

	// resting HR falls in the data and counts as higher-is-better
	trend, _ = ComputeTrend(Series(states, RestingHR), RestingHR)
	assert.False(t, trend.IsImprovement)
}

func TestSeriesOrdersByMonth(t *testing.T) {
	states := []models.JourneyState{
		{Month: 2, Biomarkers: models.Biomarkers{models.KeyWeight: "74kg"}},
		{Month: 1, Biomarkers: models.Biomarkers{models.KeyWeight: "75kg"}},
	}
	points := Series(states, Weight)
	assert.Equal(t, 1, points[0].Month)
	assert.Equal(t, "Month 1", points[0].Label)
}

func TestTrendNeedsTwoPoints(t *testing.T) {
	_, ok := ComputeTrend(Series(syntheticStates()[:1], Weight), Weight)
	assert.False(t, ok)

	s := Summarize(nil, Weight)
	assert.Equal(t, "N/A", s.Start)
	assert.Equal(t, "N/A", s.TotalChange)
}

func TestSummarize(t *testing.T) {
	s := Summarize(Series(syntheticStates(), Weight), Weight)
	assert.Equal(t, "75kg", s.Start)
	assert.Equal(t, "71.5kg", s.Current)
	assert.Equal(t, "-3.5kg", s.TotalChange)
	assert.Equal(t, "4.7%", s.Percent)
}

func TestZeroStartHasNoPercent(t *testing.T) {
	states := []models.JourneyState{
		{Month: 1, Biomarkers: models.Biomarkers{}},
		{Month: 2, Biomarkers: models.Biomarkers{models.KeyWeight: "70kg"}},
	}
	trend, ok := ComputeTrend(Series(states, Weight), Weight)
	require.True(t, ok)
	assert.Equal(t, 0.0, trend.PercentChange)
}

func TestUnknownKeyIsHigherBetter(t *testing.T) {
	points := []Point{{Month: 1, Value: 10}, {Month: 2, Value: 12}}

	trend, ok := ComputeTrend(points, "vo2_max")
	require.True(t, ok)
	assert.True(t, trend.IsImprovement)

	trend, _ = ComputeTrend([]Point{{Month: 1, Value: 12}, {Month: 2, Value: 10}}, "vo2_max")
	assert.False(t, trend.IsImprovement)
}
