// Package journey provides a client for the health journey backend API.
package journey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// ErrAPI is wrapped by every error caused by a failed backend call.
var ErrAPI = errors.New("journey api error")

// Client is a journey backend API client. It holds no cache; callers that
// want caching go through the query package.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Observe, when set, is called after every request with the endpoint,
	// the HTTP status (0 on transport failure) and the elapsed time.
	Observe func(endpoint string, status int, elapsed time.Duration)
}

// NewClient creates a new journey API client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request and returns the response body.
// The endpoint is the path without query string and labels errors.
func (c *Client) doRequest(ctx context.Context, method, endpoint, query string, body []byte) ([]byte, error) {
	target := c.BaseURL + endpoint
	if query != "" {
		target += "?" + query
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrAPI, method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrAPI, method, endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: reading body: %v", ErrAPI, method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		if errResp.Detail != "" {
			return nil, fmt.Errorf("%w: %s %s: %d %s: %s", ErrAPI, method, endpoint, resp.StatusCode, http.StatusText(resp.StatusCode), errResp.Detail)
		}
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrAPI, method, endpoint, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return respBody, nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.Observe != nil {
		c.Observe(endpoint, status, time.Since(start))
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint, query string, v any) error {
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: GET %s: decoding response: %v", ErrAPI, endpoint, err)
	}
	return nil
}

// memberPath builds a member endpoint with the id path-escaped.
func memberPath(memberID, suffix string) string {
	return "/api/v1/journey/members/" + url.PathEscape(memberID) + suffix
}

// GetMemberJourneyData fetches the complete journey for a member.
// Collections absent from the response come back empty.
func (c *Client) GetMemberJourneyData(ctx context.Context, memberID string) (*models.JourneyData, error) {
	var data models.JourneyData
	if err := c.getJSON(ctx, memberPath(memberID, ""), "", &data); err != nil {
		return nil, err
	}
	data.Normalize()
	return &data, nil
}

// timelineResponse is the month-bucketed timeline payload.
type timelineResponse struct {
	MemberID string `json:"member_id"`
	Timeline []struct {
		Month    int `json:"month"`
		Messages []struct {
			AgentName         string `json:"agent_name"`
			Content           string `json:"content"`
			MessageType       string `json:"message_type"`
			Timestamp         string `json:"timestamp"`
			Day               int    `json:"day"`
			IsMemberInitiated bool   `json:"is_member_initiated"`
		} `json:"messages"`
	} `json:"timeline"`
	HealthEvents []struct {
		Month       int               `json:"month"`
		Day         int               `json:"day"`
		EventType   string            `json:"event_type"`
		Description string            `json:"description"`
		Results     models.DisplayMap `json:"results"`
	} `json:"health_events"`
	BiomarkerProgression []struct {
		Month      int               `json:"month"`
		Biomarkers models.Biomarkers `json:"biomarkers"`
	} `json:"biomarker_progression"`
}

// GetMemberTimeline fetches the month-bucketed timeline and flattens it into
// journey data. The timeline endpoint carries no profile, so the member is
// the placeholder profile and the agent roster is empty.
func (c *Client) GetMemberTimeline(ctx context.Context, memberID string) (*models.JourneyData, error) {
	var resp timelineResponse
	if err := c.getJSON(ctx, memberPath(memberID, "/timeline"), "", &resp); err != nil {
		return nil, err
	}

	data := &models.JourneyData{
		Member: placeholderMember(memberID),
	}

	for _, month := range resp.Timeline {
		for i, msg := range month.Messages {
			data.Messages = append(data.Messages, models.Message{
				ID:          MessageID(memberID, month.Month, msg.Day, i, msg.Timestamp),
				MemberID:    memberID,
				AgentName:   msg.AgentName,
				Content:     msg.Content,
				MessageType: msg.MessageType,
				Timestamp:   msg.Timestamp,
				ContextData: models.ContextData{
					Day:               msg.Day,
					Month:             month.Month,
					IsMemberInitiated: msg.IsMemberInitiated,
				},
			})
		}
	}

	for _, ev := range resp.HealthEvents {
		data.HealthEvents = append(data.HealthEvents, models.HealthEvent{
			ID:          fmt.Sprintf("event-%d-%d", ev.Month, ev.Day),
			MemberID:    memberID,
			EventType:   ev.EventType,
			EventDate:   fmt.Sprintf("2024-%02d-%02d", ev.Month, ev.Day),
			Description: ev.Description,
			Results:     ev.Results,
		})
	}

	for _, st := range resp.BiomarkerProgression {
		data.JourneyStates = append(data.JourneyStates, models.JourneyState{
			ID:                   fmt.Sprintf("state-%d", st.Month),
			MemberID:             memberID,
			Month:                st.Month,
			Biomarkers:           st.Biomarkers,
			CurrentInterventions: []any{},
			ProgressMetrics:      map[string]any{},
		})
	}

	data.Normalize()
	return data, nil
}

// MessageID derives a stable identifier for a message reshaped from the
// timeline endpoint, which does not return one. The same message always
// maps to the same id across fetches.
func MessageID(memberID string, month, day, position int, timestamp string) string {
	name := fmt.Sprintf("%s/%d/%d/%d/%s", memberID, month, day, position, timestamp)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func placeholderMember(memberID string) models.Member {
	return models.Member{
		ID:          memberID,
		Name:        "Rohan Patel",
		Age:         46,
		Occupation:  "Regional Head of Sales",
		Location:    "Singapore",
		HealthGoals: []string{},
	}
}

// GetAgents lists the agent roster.
func (c *Client) GetAgents(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	if err := c.getJSON(ctx, "/api/v1/agents/", "", &agents); err != nil {
		return nil, err
	}
	if agents == nil {
		agents = []models.Agent{}
	}
	return agents, nil
}

// SearchResult is a single message search hit.
type SearchResult struct {
	ID          string             `json:"id"`
	MemberName  string             `json:"member_name"`
	AgentName   string             `json:"agent_name"`
	Content     string             `json:"content"`
	MessageType string             `json:"message_type"`
	Timestamp   string             `json:"timestamp"`
	Context     models.ContextData `json:"context"`
}

// SearchResponse is the message search payload.
type SearchResponse struct {
	Query        string         `json:"search_query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// SearchMessages searches message content.
func (c *Client) SearchMessages(ctx context.Context, query string) (*SearchResponse, error) {
	var resp SearchResponse
	q := url.Values{"query": {query}}.Encode()
	if err := c.getJSON(ctx, "/api/v1/messages/search", q, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []SearchResult{}
	}
	return &resp, nil
}

// Analytics is the message analytics payload.
type Analytics struct {
	TotalMessages           int            `json:"total_messages"`
	AgentActivity           map[string]int `json:"agent_activity"`
	MessageTypes            map[string]int `json:"message_types"`
	MonthlyDistribution     map[string]int `json:"monthly_distribution"`
	AverageMessagesPerMonth float64        `json:"average_messages_per_month"`
}

// GetMessageAnalytics fetches message analytics.
func (c *Client) GetMessageAnalytics(ctx context.Context) (*Analytics, error) {
	var resp Analytics
	if err := c.getJSON(ctx, "/api/v1/messages/analytics", "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateResponse is returned after the backend generates a journey.
type GenerateResponse struct {
	Message         string         `json:"message"`
	MemberID        string         `json:"member_id"`
	Summary         map[string]any `json:"summary,omitempty"`
	RealismFeatures map[string]any `json:"realism_features,omitempty"`
}

// GenerateRealisticJourney asks the backend to synthesize a new 8-month
// journey and returns the new member id.
func (c *Client) GenerateRealisticJourney(ctx context.Context) (*GenerateResponse, error) {
	const endpoint = "/api/v1/journey/generate-realistic"
	body, err := c.doRequest(ctx, http.MethodPost, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	var resp GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: POST %s: decoding response: %v", ErrAPI, endpoint, err)
	}
	if resp.MemberID == "" {
		return nil, fmt.Errorf("%w: POST %s: response has no member_id", ErrAPI, endpoint)
	}
	return &resp, nil
}

// MemberSummary is a row of the member listing.
type MemberSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
}

// ListMembers lists members known to the backend.
func (c *Client) ListMembers(ctx context.Context) ([]MemberSummary, error) {
	var members []MemberSummary
	if err := c.getJSON(ctx, "/api/v1/journey/members", "", &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []MemberSummary{}
	}
	return members, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", "", nil)
	return err
}
