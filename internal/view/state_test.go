package view

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
)

func TestReduceSelectMonthToggles(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, SelectMonth{Month: 3})
	assert.Equal(t, 3, s.SelectedMonth)

	s = Reduce(s, SelectMonth{Month: 5})
	assert.Equal(t, 5, s.SelectedMonth)

	s = Reduce(s, SelectMonth{Month: 5})
	assert.Equal(t, 0, s.SelectedMonth)

	s = Reduce(s, SelectMonth{Month: 9})
	assert.Equal(t, 0, s.SelectedMonth)
}

func TestReduceSelectBiomarker(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, biomarker.BloodPressureSys, s.SelectedBiomarker)

	s = Reduce(s, SelectBiomarker{Key: biomarker.Weight})
	assert.Equal(t, biomarker.Weight, s.SelectedBiomarker)

	s = Reduce(s, SelectBiomarker{Key: "cholesterol"})
	assert.Equal(t, biomarker.Weight, s.SelectedBiomarker)
}

func TestReduceModals(t *testing.T) {
	s := Reduce(DefaultState(), OpenTraceModal{MessageID: "m1"})
	assert.Equal(t, Modal{Kind: ModalTrace, MessageID: "m1"}, s.Modal)

	// opening another modal replaces the first
	s = Reduce(s, OpenDrillDownModal{MessageID: "m2"})
	assert.Equal(t, Modal{Kind: ModalDrillDown, MessageID: "m2"}, s.Modal)

	s = Reduce(s, CloseModal{})
	assert.False(t, s.Modal.Open())
	assert.Equal(t, s, Reduce(s, nil))
}

func TestQueryRoundTrip(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, SelectMonth{Month: 4})
	s = Reduce(s, SelectBiomarker{Key: biomarker.SleepHours})
	s = Reduce(s, OpenDrillDownModal{MessageID: "abc"})

	q := s.Query()
	assert.Equal(t, "4", q.Get(ParamMonth))
	assert.Equal(t, "drilldown", q.Get(ParamModal))
	assert.Equal(t, s, FromQuery(q))
}

func TestQueryOmitsDefaults(t *testing.T) {
	assert.Empty(t, DefaultState().Query())
}

func TestFromQueryRejectsInvalid(t *testing.T) {
	s := FromQuery(url.Values{
		ParamMonth:     {"twelve"},
		ParamBiomarker: {"unknown"},
		ParamModal:     {"popup"},
		ParamMessage:   {"m1"},
	})
	assert.Equal(t, DefaultState(), s)

	s = FromQuery(url.Values{ParamModal: {"trace"}})
	assert.False(t, s.Modal.Open())
}

func TestLinker(t *testing.T) {
	l := Linker{Path: "/", Member: "m 1"}
	s := DefaultState()

	assert.Equal(t, "/?member=m+1&month=2", l.Href(s, SelectMonth{Month: 2}))
	assert.Equal(t, "/", Linker{}.URL(s))
}
