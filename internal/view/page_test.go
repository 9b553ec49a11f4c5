package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/journeyboard/clients/go/journey"
	"github.com/eldtechnologies/journeyboard/internal/biomarker"
)

func TestComposeDefaults(t *testing.T) {
	data := journey.MockJourneyData()
	p := Compose(data, DefaultState(), Linker{})

	assert.Equal(t, "Rohan's Health Journey", p.Title)
	assert.Equal(t, 2, p.MessageCount)
	require.Len(t, p.Months, 8)
	assert.Equal(t, "Jan", p.Months[0].Name)
	assert.Equal(t, "/?month=1", p.Months[0].Href)
	assert.Nil(t, p.Detail)
	assert.Nil(t, p.Modal)
	require.Len(t, p.Overview, 3)

	require.Len(t, p.Stats, 3)
	assert.Equal(t, "138/88 → 117/74", p.Stats[0].Value)
	assert.True(t, p.Stats[0].Improved)
	assert.Equal(t, "75kg → 71.5kg", p.Stats[1].Value)
	assert.Equal(t, "-3.5kg", p.Stats[1].Subtitle)

	assert.Equal(t, biomarker.BloodPressureSys, p.Chart.Selected.Key)
	assert.Len(t, p.Chart.Points, 8)
	assert.True(t, p.Chart.HasTrend)
	assert.Len(t, p.Chart.Options, len(biomarker.Options()))

	assert.Equal(t, 2, p.Chat.Count)
	require.Len(t, p.Chat.Days, 1)
	entries := p.Chat.Days[0].Entries
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsMember)
	assert.Empty(t, entries[0].TraceHref)
	assert.Equal(t, "/?message=2&modal=trace", entries[1].TraceHref)
}

func TestComposeSelectedMonth(t *testing.T) {
	data := journey.MockJourneyData()
	s := Reduce(DefaultState(), SelectMonth{Month: 3})
	p := Compose(data, s, Linker{})

	require.NotNil(t, p.Detail)
	assert.Equal(t, "March 2024", p.Detail.Name)
	require.NotEmpty(t, p.Detail.Biomarkers)
	assert.Equal(t, LabeledValue{Label: "Weight", Value: "74kg"}, p.Detail.Biomarkers[0])
	require.NotNil(t, p.Detail.Report)
	assert.Equal(t, "Q1 Comprehensive Health Panel", p.Detail.Report.Title)
	assert.Equal(t, "March 15, 2024", p.Detail.Report.Date)
	assert.Contains(t, p.Detail.Report.Highlights, "blood panel: Improved lipid profile")

	assert.True(t, p.Months[2].Selected)
	assert.Equal(t, "/", p.Months[2].Href)
	assert.Equal(t, "/", p.ClearMonthHref)
	// the mock messages are in January
	assert.Equal(t, 0, p.Chat.Count)
}

func TestComposeModals(t *testing.T) {
	data := journey.MockJourneyData()

	p := Compose(data, Reduce(DefaultState(), OpenTraceModal{MessageID: "2"}), Linker{})
	require.NotNil(t, p.Modal)
	require.NotNil(t, p.Modal.Trace)
	assert.Nil(t, p.Modal.DrillDown)
	assert.Equal(t, "/", p.Modal.CloseHref)

	p = Compose(data, Reduce(DefaultState(), OpenDrillDownModal{MessageID: "2"}), Linker{})
	require.NotNil(t, p.Modal)
	require.NotNil(t, p.Modal.DrillDown)
	assert.Equal(t, 1, p.Modal.DrillDown.CurrentMonth)

	p = Compose(data, Reduce(DefaultState(), OpenTraceModal{MessageID: "missing"}), Linker{})
	assert.Nil(t, p.Modal)
}

func TestRenderDashboard(t *testing.T) {
	data := journey.MockJourneyData()
	s := Reduce(Reduce(DefaultState(), SelectMonth{Month: 1}), OpenTraceModal{MessageID: "2"})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Compose(data, s, Linker{Member: journey.MockMemberID})))
	html := buf.String()

	assert.Contains(t, html, "Rohan&#39;s Health Journey")
	assert.Contains(t, html, "AI Decision Traceability")
	assert.Contains(t, html, "Monday, January 15, 2024")
	assert.Contains(t, html, "member=mock-member-id")
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderError(&buf, NewErrorPage("/?member=abc")))
	html := buf.String()
	assert.Contains(t, html, "Connection Error")
	assert.Contains(t, html, "Try Again")
	assert.Contains(t, html, `href="/?member=abc"`)
}
