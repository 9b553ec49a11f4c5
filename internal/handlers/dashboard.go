package handlers

import (
	"net/http"

	"github.com/eldtechnologies/journeyboard/internal/view"
)

// Dashboard renders the HTML dashboard. UI state comes from the query
// string so every view is reachable by URL.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := view.FromQuery(r.URL.Query())
	memberID := h.member(r)
	link := view.Linker{Path: r.URL.Path}
	if memberID != h.memberID {
		link.Member = memberID
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	res := h.journeys.Get(r.Context(), memberID)
	if res.Err != nil {
		h.logger.Error().Err(res.Err).Str("member_id", memberID).Msg("dashboard load failed")
		w.WriteHeader(http.StatusBadGateway)
		if err := view.RenderError(w, view.NewErrorPage(r.URL.RequestURI())); err != nil {
			h.logger.Error().Err(err).Msg("error page render failed")
		}
		return
	}

	page := view.Compose(res.Data, state, link)
	page.Stale = res.Stale
	page.FetchedAt = res.FetchedAt

	if err := view.Render(w, page); err != nil {
		h.logger.Error().Err(err).Msg("dashboard render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
