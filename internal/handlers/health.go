package handlers

import (
	"context"
	"net/http"
	"os"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass", "fail" or "skip"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Version   string           `json:"version"`
	Instance  string           `json:"instance,omitempty"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// check runs ping and records its latency. A nil ping is reported as not
// configured and does not degrade the service.
func check(ctx context.Context, ping func(context.Context) error) (Check, bool) {
	if ping == nil {
		return Check{Status: "skip", Message: "not configured"}, true
	}
	start := time.Now()
	if err := ping(ctx); err != nil {
		return Check{Status: "fail", Message: "connection failed"}, false
	}
	return Check{Status: "pass", Latency: time.Since(start).String()}, true
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var backendPing, redisPing, snapshotPing func(context.Context) error
	if h.backend != nil {
		backendPing = h.backend.Health
	}
	if h.redis != nil {
		redisPing = h.redis.Ping
	}
	if h.snapshots != nil {
		snapshotPing = h.snapshots.Ping
	}

	checks := make(map[string]Check)
	allHealthy := true
	for name, ping := range map[string]func(context.Context) error{
		"journey_api": backendPing,
		"redis":       redisPing,
		"snapshots":   snapshotPing,
	} {
		c, ok := check(ctx, ping)
		checks[name] = c
		allHealthy = allHealthy && ok
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	h.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Version:   version,
		Instance:  os.Getenv("HOSTNAME"),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RootResponse represents the API info endpoint response.
type RootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	MemberID  string   `json:"member_id,omitempty"`
	Endpoints []string `json:"endpoints"`
}

// Root handles the API info endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:     "journeyboard",
		Version:  version,
		MemberID: h.memberID,
		Endpoints: []string{
			"GET /api/journey",
			"GET /api/timeline",
			"GET /api/chat",
			"GET /api/biomarkers/{key}",
			"GET /api/messages/{id}/drilldown",
			"GET /api/messages/{id}/trace",
			"GET /api/agents",
			"GET /api/search",
			"GET /api/analytics",
			"GET /api/members",
			"POST /api/generate",
		},
	})
}
