package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/journeyboard/clients/go/journey"
	"github.com/eldtechnologies/journeyboard/internal/models"
	"github.com/eldtechnologies/journeyboard/internal/query"
	"github.com/eldtechnologies/journeyboard/internal/store"
	"github.com/eldtechnologies/journeyboard/internal/view"
)

// Backend is the journey API surface the handlers call directly.
type Backend interface {
	GetMemberTimeline(ctx context.Context, memberID string) (*models.JourneyData, error)
	SearchMessages(ctx context.Context, q string) (*journey.SearchResponse, error)
	GetMessageAnalytics(ctx context.Context) (*journey.Analytics, error)
	GenerateRealisticJourney(ctx context.Context) (*journey.GenerateResponse, error)
	ListMembers(ctx context.Context) ([]journey.MemberSummary, error)
	Health(ctx context.Context) error
}

// Deps are the dependencies of the HTTP handlers. Snapshots and Redis are
// optional.
type Deps struct {
	Backend   Backend
	Journeys  *query.Journeys
	Agents    *query.Agents
	Snapshots store.SnapshotStore
	Redis     *store.RedisStore
	MemberID  string
	Logger    zerolog.Logger
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	backend   Backend
	journeys  *query.Journeys
	agents    *query.Agents
	snapshots store.SnapshotStore
	redis     *store.RedisStore
	memberID  string
	logger    zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		backend:   d.Backend,
		journeys:  d.Journeys,
		agents:    d.Agents,
		snapshots: d.Snapshots,
		redis:     d.Redis,
		memberID:  d.MemberID,
		logger:    d.Logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// upstreamError logs a failed backend call and answers 502.
func (h *Handler) upstreamError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.logger.Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg(message)
	h.Error(w, http.StatusBadGateway, message)
}

// member returns the member selected by the request, falling back to the
// configured member.
func (h *Handler) member(r *http.Request) string {
	if id := sanitizeID(r.URL.Query().Get(view.ParamMember)); id != "" {
		return id
	}
	return h.memberID
}

// loadJourney fetches the request's journey, answering 502 on failure.
func (h *Handler) loadJourney(w http.ResponseWriter, r *http.Request) (query.Result[*models.JourneyData], bool) {
	res := h.journeys.Get(r.Context(), h.member(r))
	if res.Err != nil {
		h.upstreamError(w, r, res.Err, "failed to load journey")
		return res, false
	}
	return res, true
}

// sanitizeID trims an identifier, drops control characters and limits it
// to 64 characters.
func sanitizeID(id string) string {
	id = strings.TrimSpace(id)

	id = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, id)

	if len(id) > 64 {
		id = id[:64]
	}
	return id
}
