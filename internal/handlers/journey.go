package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/decision"
	"github.com/eldtechnologies/journeyboard/internal/models"
	"github.com/eldtechnologies/journeyboard/internal/timeline"
)

// JourneyResponse wraps journey data with its freshness.
type JourneyResponse struct {
	Journey   *models.JourneyData `json:"journey"`
	Stale     bool                `json:"stale"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// Journey returns the member's full journey.
func (h *Handler) Journey(w http.ResponseWriter, r *http.Request) {
	res, ok := h.loadJourney(w, r)
	if !ok {
		return
	}
	h.JSON(w, http.StatusOK, JourneyResponse{Journey: res.Data, Stale: res.Stale, FetchedAt: res.FetchedAt})
}

// TimelineResponse is the aggregated 8-month timeline.
type TimelineResponse struct {
	MemberID string                 `json:"member_id"`
	Months   []models.TimelineMonth `json:"months"`
	Cards    []timeline.Card        `json:"cards"`
	Overview []timeline.Change      `json:"overview,omitempty"`
	Stale    bool                   `json:"stale"`
}

// Timeline returns the timeline months. With source=timeline the data comes
// uncached from the backend's month-bucketed endpoint.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	var data *models.JourneyData
	var stale bool

	if r.URL.Query().Get("source") == "timeline" {
		memberID := h.member(r)
		if memberID == "" {
			h.Error(w, http.StatusBadRequest, "member is required for source=timeline")
			return
		}
		d, err := h.backend.GetMemberTimeline(r.Context(), memberID)
		if err != nil {
			h.upstreamError(w, r, err, "failed to load timeline")
			return
		}
		data = d
	} else {
		res, ok := h.loadJourney(w, r)
		if !ok {
			return
		}
		data, stale = res.Data, res.Stale
	}

	months := timeline.Build(data)
	cards := make([]timeline.Card, 0, len(months))
	for _, tm := range months {
		cards = append(cards, timeline.SummarizeMonth(tm))
	}

	h.JSON(w, http.StatusOK, TimelineResponse{
		MemberID: data.Member.ID,
		Months:   months,
		Cards:    cards,
		Overview: timeline.ProgressOverview(months),
		Stale:    stale,
	})
}

// parseMonth reads the month query parameter. Empty means all months.
func parseMonth(r *http.Request) (int, bool) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return 0, true
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 0 || m > timeline.Months {
		return 0, false
	}
	return m, true
}

// Chat returns the chat transcript, optionally for one month.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		h.Error(w, http.StatusBadRequest, "month must be between 1 and 8")
		return
	}
	res, ok := h.loadJourney(w, r)
	if !ok {
		return
	}
	h.JSON(w, http.StatusOK, timeline.BuildTranscript(res.Data.Messages, month))
}

// BiomarkerResponse is a chart series with its trend.
type BiomarkerResponse struct {
	Option  biomarker.Option  `json:"option"`
	Points  []biomarker.Point `json:"points"`
	Trend   *biomarker.Trend  `json:"trend,omitempty"`
	Summary biomarker.Summary `json:"summary"`
}

// Biomarker returns one biomarker series.
func (h *Handler) Biomarker(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	opt, ok := biomarker.Lookup(key)
	if !ok {
		h.Error(w, http.StatusNotFound, "unknown biomarker")
		return
	}
	res, ok := h.loadJourney(w, r)
	if !ok {
		return
	}

	points := biomarker.Series(res.Data.JourneyStates, opt.Key)
	resp := BiomarkerResponse{
		Option:  opt,
		Points:  points,
		Summary: biomarker.Summarize(points, opt.Key),
	}
	if t, ok := biomarker.ComputeTrend(points, opt.Key); ok {
		resp.Trend = &t
	}
	h.JSON(w, http.StatusOK, resp)
}

// BiomarkerOptions lists the selectable chart series.
func (h *Handler) BiomarkerOptions(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, biomarker.Options())
}

// message resolves the {id} message of the request's journey.
func (h *Handler) message(w http.ResponseWriter, r *http.Request) (*models.JourneyData, *models.Message, bool) {
	res, ok := h.loadJourney(w, r)
	if !ok {
		return nil, nil, false
	}
	msg, found := res.Data.MessageByID(chi.URLParam(r, "id"))
	if !found {
		h.Error(w, http.StatusNotFound, "message not found")
		return nil, nil, false
	}
	return res.Data, msg, true
}

// DrillDown returns the decision analysis for a message.
func (h *Handler) DrillDown(w http.ResponseWriter, r *http.Request) {
	data, msg, ok := h.message(w, r)
	if !ok {
		return
	}
	h.JSON(w, http.StatusOK, decision.DrillDown(*msg, data.JourneyStates))
}

// Trace returns the traceability view for a message.
func (h *Handler) Trace(w http.ResponseWriter, r *http.Request) {
	data, msg, ok := h.message(w, r)
	if !ok {
		return
	}
	h.JSON(w, http.StatusOK, decision.Trace(*msg, data.JourneyStates, data.Agents))
}

// Agents returns the agent roster.
func (h *Handler) Agents(w http.ResponseWriter, r *http.Request) {
	res := h.agents.Get(r.Context())
	if res.Err != nil {
		h.upstreamError(w, r, res.Err, "failed to load agents")
		return
	}
	h.JSON(w, http.StatusOK, res.Data)
}
