package handlers

import (
	"net/http"
	"time"

	"github.com/eldtechnologies/journeyboard/clients/go/journey"
	"github.com/eldtechnologies/journeyboard/internal/metrics"
	"github.com/eldtechnologies/journeyboard/internal/models"
	"github.com/eldtechnologies/journeyboard/internal/view"
)

const recentLimit = 20

// MembersResponse lists members from the backend together with locally
// known journeys.
type MembersResponse struct {
	Members   []journey.MemberSummary `json:"members"`
	Generated []string                `json:"generated,omitempty"`
	Snapshots []models.Snapshot       `json:"snapshots,omitempty"`
}

// Members lists members.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.backend.ListMembers(ctx)
	if err != nil {
		h.upstreamError(w, r, err, "failed to list members")
		return
	}
	resp := MembersResponse{Members: members}

	// Local sources are best-effort
	if h.redis != nil {
		if ids, err := h.redis.RecentGenerated(ctx, recentLimit); err == nil {
			resp.Generated = ids
		} else {
			h.logger.Warn().Err(err).Msg("failed to read generated members")
		}
	}
	if h.snapshots != nil {
		if snaps, err := h.snapshots.ListSnapshots(ctx, recentLimit); err == nil {
			resp.Snapshots = snaps
		} else {
			h.logger.Warn().Err(err).Msg("failed to list snapshots")
		}
	}

	h.JSON(w, http.StatusOK, resp)
}

// GenerateResponse is returned after a journey was generated.
type GenerateResponse struct {
	*journey.GenerateResponse
	DashboardURL string `json:"dashboard_url"`
}

// Generate asks the backend to synthesize a new journey.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.backend.GenerateRealisticJourney(ctx)
	if err != nil {
		h.upstreamError(w, r, err, "failed to generate journey")
		return
	}
	metrics.JourneysGenerated.Inc()

	if h.redis != nil {
		if err := h.redis.RecordGenerated(ctx, resp.MemberID, time.Now()); err != nil {
			h.logger.Warn().Err(err).Str("member_id", resp.MemberID).Msg("failed to record generated member")
		}
	}
	if err := h.journeys.Invalidate(ctx, resp.MemberID); err != nil {
		h.logger.Warn().Err(err).Str("member_id", resp.MemberID).Msg("failed to invalidate journey")
	}

	h.logger.Info().Str("member_id", resp.MemberID).Msg("journey generated")

	link := view.Linker{Path: "/", Member: resp.MemberID}
	h.JSON(w, http.StatusCreated, GenerateResponse{
		GenerateResponse: resp,
		DashboardURL:     link.URL(view.DefaultState()),
	})
}
