package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayMapKeepsLooseValues(t *testing.T) {
	var m DisplayMap
	require.NoError(t, json.Unmarshal([]byte(`{"ldl": 96, "note": "ok", "flags": [1, 2], "gone": null}`), &m))

	assert.Equal(t, "96", m["ldl"])
	assert.Equal(t, "ok", m["note"])
	assert.Equal(t, "[1,2]", m["flags"])
	assert.NotContains(t, m, "gone")
	assert.Equal(t, []string{"flags", "ldl", "note"}, m.Keys())
}

func TestDisplayMapNull(t *testing.T) {
	var m DisplayMap
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Nil(t, m)
}

func TestRatioMarshal(t *testing.T) {
	b, err := json.Marshal(Ratio(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
	assert.False(t, Ratio(math.NaN()).Valid())

	b, err = json.Marshal(Ratio(0.5))
	require.NoError(t, err)
	assert.Equal(t, "0.5", string(b))
	assert.True(t, Ratio(0.5).Valid())
}

func TestJourneyStateAcceptsBothSpellings(t *testing.T) {
	var aggregate JourneyState
	require.NoError(t, json.Unmarshal([]byte(`{"month": 3, "interventions": ["walk"], "metrics": {"score": 2}}`), &aggregate))
	assert.Equal(t, 3, aggregate.Month)
	assert.Equal(t, []any{"walk"}, aggregate.CurrentInterventions)
	assert.Equal(t, map[string]any{"score": float64(2)}, aggregate.ProgressMetrics)

	var timeline JourneyState
	require.NoError(t, json.Unmarshal([]byte(`{"month": 1, "current_interventions": ["sleep"], "interventions": ["ignored"]}`), &timeline))
	assert.Equal(t, []any{"sleep"}, timeline.CurrentInterventions)
}

func TestNormalizeAndLookups(t *testing.T) {
	d := &JourneyData{
		Messages:      []Message{{ID: "a"}, {ID: "b"}},
		JourneyStates: []JourneyState{{Month: 2}},
	}
	d.Normalize()
	assert.NotNil(t, d.Agents)
	assert.NotNil(t, d.HealthEvents)
	assert.NotNil(t, d.Member.HealthGoals)

	msg, ok := d.MessageByID("b")
	require.True(t, ok)
	assert.Equal(t, "b", msg.ID)
	_, ok = d.MessageByID("z")
	assert.False(t, ok)

	st, ok := d.StateForMonth(2)
	require.True(t, ok)
	assert.Equal(t, 2, st.Month)
	_, ok = d.StateForMonth(5)
	assert.False(t, ok)
}

func TestContextDataToleratesLooseTypes(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "m1",
		"context_data": {"month": "3", "day": 4.0, "is_member_initiated": "true", "sender": 7, "urgency": "high"}
	}`), &msg))

	assert.Equal(t, 3, msg.ContextData.Month)
	assert.Equal(t, 4, msg.ContextData.Day)
	assert.True(t, msg.ContextData.IsMemberInitiated)
	assert.Empty(t, msg.ContextData.Sender)
	assert.Equal(t, "high", msg.ContextData.Urgency)
}

func TestContextDataBadValuesDefault(t *testing.T) {
	var data JourneyData
	require.NoError(t, json.Unmarshal([]byte(`{
		"messages": [
			{"id": "a", "context_data": {"month": "soon", "is_member_initiated": {"x": 1}}},
			{"id": "b", "context_data": "n/a"},
			{"id": "c", "context_data": {"month": 2, "is_member_initiated": 1}}
		]
	}`), &data))

	require.Len(t, data.Messages, 3)
	assert.Equal(t, ContextData{}, data.Messages[0].ContextData)
	assert.Equal(t, ContextData{}, data.Messages[1].ContextData)
	assert.Equal(t, 2, data.Messages[2].ContextData.Month)
	assert.True(t, data.Messages[2].ContextData.IsMemberInitiated)
}
