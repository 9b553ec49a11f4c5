package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/decision"
	"github.com/eldtechnologies/journeyboard/internal/models"
	"github.com/eldtechnologies/journeyboard/internal/timeline"
)

// Page is everything the dashboard template renders.
type Page struct {
	Title     string
	Member    models.Member
	State     State
	Stale     bool
	FetchedAt time.Time

	MessageCount int
	Stats        []Stat
	Months       []MonthCard
	Overview     []timeline.Change
	Detail       *MonthDetail
	Chart        Chart
	Chat         Chat
	Modal        *ModalView

	ClearMonthHref string
}

// Stat is one header metric card.
type Stat struct {
	Label    string
	Value    string
	Subtitle string
	Trend    string
	Improved bool
}

// MonthCard is a timeline card with its selection link.
type MonthCard struct {
	timeline.Card
	Name     string
	Selected bool
	Href     string
}

// LabeledValue is a display row.
type LabeledValue struct {
	Label string
	Value string
}

// Report is the quarterly diagnostic shown for a month.
type Report struct {
	Title      string
	Date       string
	Highlights []string
}

// MonthDetail is the expanded panel for the selected month.
type MonthDetail struct {
	Month      int
	Name       string
	Biomarkers []LabeledValue
	Report     *Report
}

// ChartOption is a selectable series.
type ChartOption struct {
	biomarker.Option
	Selected bool
	Href     string
}

// Chart is the biomarker chart panel.
type Chart struct {
	Options  []ChartOption
	Selected biomarker.Option
	Points   []biomarker.Point
	Trend    biomarker.Trend
	HasTrend bool
	Summary  biomarker.Summary
}

// ChatEntry is a transcript line with its modal links.
type ChatEntry struct {
	timeline.Entry
	TraceHref     string
	DrillDownHref string
}

// ChatDay is a day of the transcript.
type ChatDay struct {
	Date    string
	Label   string
	Entries []ChatEntry
}

// Chat is the transcript panel.
type Chat struct {
	SelectedMonth int
	Count         int
	Days          []ChatDay
}

// ModalView is the open modal.
type ModalView struct {
	Kind      ModalKind
	Message   models.Message
	Trace     *decision.TraceView
	DrillDown *decision.Analysis
	CloseHref string
}

// biomarkerRows is the order and labels of the month detail rows.
var biomarkerRows = []struct{ key, label string }{
	{models.KeyWeight, "Weight"},
	{models.KeyBloodPressure, "Blood Pressure"},
	{models.KeyStressLevel, "Stress Level"},
	{models.KeySleepAverage, "Sleep Average"},
	{models.KeyAdherence, "Plan Adherence"},
	{models.KeyBodyFat, "Body Fat"},
	{models.KeyRestingHeartRate, "Resting Heart Rate"},
}

// Compose builds the dashboard page for data in state s.
func Compose(data *models.JourneyData, s State, link Linker) Page {
	months := timeline.Build(data)

	p := Page{
		Title:          title(data.Member.Name),
		Member:         data.Member,
		State:          s,
		MessageCount:   len(data.Messages),
		Stats:          stats(data.JourneyStates),
		Overview:       timeline.ProgressOverview(months),
		ClearMonthHref: link.Href(s, SelectMonth{Month: s.SelectedMonth}),
	}

	for _, tm := range months {
		p.Months = append(p.Months, MonthCard{
			Card:     timeline.SummarizeMonth(tm),
			Name:     time.Month(tm.Month).String()[:3],
			Selected: tm.Month == s.SelectedMonth,
			Href:     link.Href(s, SelectMonth{Month: tm.Month}),
		})
	}

	if s.SelectedMonth != 0 {
		p.Detail = monthDetail(data, s.SelectedMonth)
	}

	p.Chart = chart(data.JourneyStates, s, link)
	p.Chat = chat(data.Messages, s, link)
	p.Modal = modal(data, s, link)
	return p
}

func title(name string) string {
	first := strings.Fields(name)
	if len(first) == 0 {
		return "Health Journey"
	}
	return first[0] + "'s Health Journey"
}

func stats(states []models.JourneyState) []Stat {
	var out []Stat
	for _, st := range []struct {
		label, key string
	}{
		{"Blood Pressure", biomarker.BloodPressureSys},
		{"Weight", biomarker.Weight},
		{"Stress Level", biomarker.StressLevel},
	} {
		points := biomarker.Series(states, st.key)
		sum := biomarker.Summarize(points, st.key)
		trend, ok := biomarker.ComputeTrend(points, st.key)
		out = append(out, Stat{
			Label:    st.label,
			Value:    sum.Start + " → " + sum.Current,
			Subtitle: sum.TotalChange,
			Trend:    sum.Percent,
			Improved: ok && trend.IsImprovement,
		})
	}
	return out
}

func monthDetail(data *models.JourneyData, month int) *MonthDetail {
	d := &MonthDetail{
		Month: month,
		Name:  time.Month(month).String() + " 2024",
	}

	if st, ok := data.StateForMonth(month); ok && st.Biomarkers != nil {
		for _, row := range biomarkerRows {
			d.Biomarkers = append(d.Biomarkers, LabeledValue{
				Label: row.label,
				Value: st.Biomarkers.Or(row.key, "N/A"),
			})
		}
	}

	for _, ev := range data.HealthEvents {
		if m, ok := timeline.EventMonth(ev); !ok || m != month {
			continue
		}
		r := &Report{Title: ev.Description, Date: ev.EventDate}
		if t, ok := timeline.ParseTime(ev.EventDate); ok {
			r.Date = t.Format("January 2, 2006")
		}
		for _, k := range ev.Results.Keys() {
			r.Highlights = append(r.Highlights, fmt.Sprintf("%s: %s", strings.Replace(k, "_", " ", 1), ev.Results[k]))
		}
		d.Report = r
		break
	}
	return d
}

func chart(states []models.JourneyState, s State, link Linker) Chart {
	selected := biomarker.OptionOrDefault(s.SelectedBiomarker)
	c := Chart{
		Selected: selected,
		Points:   biomarker.Series(states, selected.Key),
	}
	for _, o := range biomarker.Options() {
		c.Options = append(c.Options, ChartOption{
			Option:   o,
			Selected: o.Key == selected.Key,
			Href:     link.Href(s, SelectBiomarker{Key: o.Key}),
		})
	}
	c.Trend, c.HasTrend = biomarker.ComputeTrend(c.Points, selected.Key)
	c.Summary = biomarker.Summarize(c.Points, selected.Key)
	return c
}

func chat(messages []models.Message, s State, link Linker) Chat {
	t := timeline.BuildTranscript(messages, s.SelectedMonth)
	c := Chat{SelectedMonth: t.SelectedMonth, Count: t.Count}
	for _, day := range t.Days {
		cd := ChatDay{Date: day.Date, Label: day.Label}
		for _, e := range day.Entries {
			ce := ChatEntry{Entry: e}
			if !e.IsMember {
				ce.TraceHref = link.Href(s, OpenTraceModal{MessageID: e.Message.ID})
				ce.DrillDownHref = link.Href(s, OpenDrillDownModal{MessageID: e.Message.ID})
			}
			cd.Entries = append(cd.Entries, ce)
		}
		c.Days = append(c.Days, cd)
	}
	return c
}

// modal resolves the open modal. A modal naming an unknown message is
// dropped.
func modal(data *models.JourneyData, s State, link Linker) *ModalView {
	if !s.Modal.Open() {
		return nil
	}
	msg, ok := data.MessageByID(s.Modal.MessageID)
	if !ok {
		return nil
	}

	mv := &ModalView{
		Kind:      s.Modal.Kind,
		Message:   *msg,
		CloseHref: link.Href(s, CloseModal{}),
	}
	switch s.Modal.Kind {
	case ModalTrace:
		tv := decision.Trace(*msg, data.JourneyStates, data.Agents)
		mv.Trace = &tv
	case ModalDrillDown:
		a := decision.DrillDown(*msg, data.JourneyStates)
		mv.DrillDown = &a
	default:
		return nil
	}
	return mv
}
