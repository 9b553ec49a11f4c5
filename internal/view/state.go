// Package view holds the dashboard's UI state and turns journey data into
// a renderable page.
package view

import (
	"net/url"
	"strconv"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/timeline"
)

// ModalKind names the open modal.
type ModalKind string

const (
	ModalNone      ModalKind = ""
	ModalTrace     ModalKind = "trace"
	ModalDrillDown ModalKind = "drilldown"
)

// Modal is the open modal and the message it explains.
type Modal struct {
	Kind      ModalKind `json:"kind,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
}

// Open reports whether a modal is showing.
func (m Modal) Open() bool {
	return m.Kind != ModalNone && m.MessageID != ""
}

// State is the dashboard's UI state. At most one modal is open.
type State struct {
	SelectedMonth     int    `json:"selected_month,omitempty"`
	SelectedBiomarker string `json:"selected_biomarker"`
	Modal             Modal  `json:"modal"`
}

// DefaultState is the state of a freshly loaded dashboard.
func DefaultState() State {
	return State{SelectedBiomarker: biomarker.DefaultOption}
}

// Action is a UI event handled by Reduce.
type Action interface {
	apply(State) State
}

// SelectMonth toggles the month selection. Selecting the selected month
// clears it.
type SelectMonth struct{ Month int }

// SelectBiomarker switches the chart series.
type SelectBiomarker struct{ Key string }

// OpenTraceModal opens the traceability modal for a message.
type OpenTraceModal struct{ MessageID string }

// OpenDrillDownModal opens the decision drill-down modal for a message.
type OpenDrillDownModal struct{ MessageID string }

// CloseModal closes whichever modal is open.
type CloseModal struct{}

func (a SelectMonth) apply(s State) State {
	if a.Month == s.SelectedMonth || a.Month < 1 || a.Month > timeline.Months {
		s.SelectedMonth = 0
		return s
	}
	s.SelectedMonth = a.Month
	return s
}

func (a SelectBiomarker) apply(s State) State {
	if _, ok := biomarker.Lookup(a.Key); ok {
		s.SelectedBiomarker = a.Key
	}
	return s
}

func (a OpenTraceModal) apply(s State) State {
	s.Modal = Modal{Kind: ModalTrace, MessageID: a.MessageID}
	return s
}

func (a OpenDrillDownModal) apply(s State) State {
	s.Modal = Modal{Kind: ModalDrillDown, MessageID: a.MessageID}
	return s
}

func (CloseModal) apply(s State) State {
	s.Modal = Modal{}
	return s
}

// Reduce returns the state after action.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// Query parameter names.
const (
	ParamMonth     = "month"
	ParamBiomarker = "biomarker"
	ParamModal     = "modal"
	ParamMessage   = "message"
	ParamMember    = "member"
)

// FromQuery decodes state from URL query parameters. Invalid values fall
// back to the defaults.
func FromQuery(q url.Values) State {
	s := DefaultState()

	if m, err := strconv.Atoi(q.Get(ParamMonth)); err == nil {
		s = Reduce(s, SelectMonth{Month: m})
	}
	if key := q.Get(ParamBiomarker); key != "" {
		s = Reduce(s, SelectBiomarker{Key: key})
	}

	id := q.Get(ParamMessage)
	if id == "" {
		return s
	}
	switch ModalKind(q.Get(ParamModal)) {
	case ModalTrace:
		s = Reduce(s, OpenTraceModal{MessageID: id})
	case ModalDrillDown:
		s = Reduce(s, OpenDrillDownModal{MessageID: id})
	}
	return s
}

// Query encodes the state as URL query parameters, omitting defaults.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.SelectedMonth != 0 {
		q.Set(ParamMonth, strconv.Itoa(s.SelectedMonth))
	}
	if s.SelectedBiomarker != "" && s.SelectedBiomarker != biomarker.DefaultOption {
		q.Set(ParamBiomarker, s.SelectedBiomarker)
	}
	if s.Modal.Open() {
		q.Set(ParamModal, string(s.Modal.Kind))
		q.Set(ParamMessage, s.Modal.MessageID)
	}
	return q
}

// Linker builds dashboard links that keep the member selection.
type Linker struct {
	Path   string
	Member string
}

// Href returns the link to the state reached from s by a.
func (l Linker) Href(s State, a Action) string {
	return l.URL(Reduce(s, a))
}

// URL returns the link to s.
func (l Linker) URL(s State) string {
	q := s.Query()
	if l.Member != "" {
		q.Set(ParamMember, l.Member)
	}
	path := l.Path
	if path == "" {
		path = "/"
	}
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
