package handlers

import (
	"net/http"
	"strings"

	"github.com/eldtechnologies/journeyboard/internal/metrics"
)

const maxQueryLen = 100

// Search handles the message search endpoint.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		h.Error(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	if len(q) > maxQueryLen {
		h.Error(w, http.StatusBadRequest, "query too long (max 100 chars)")
		return
	}

	metrics.SearchQueries.Inc()

	resp, err := h.backend.SearchMessages(r.Context(), q)
	if err != nil {
		h.upstreamError(w, r, err, "search failed")
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

// Analytics returns message analytics.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.GetMessageAnalytics(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "failed to load analytics")
		return
	}
	h.JSON(w, http.StatusOK, resp)
}
