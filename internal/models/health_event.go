package models

// HealthEvent is a dated clinical or diagnostic event.
type HealthEvent struct {
	ID            string     `json:"id"`
	MemberID      string     `json:"member_id,omitempty"`
	EventType     string     `json:"event_type"`
	EventDate     string     `json:"event_date"`
	Description   string     `json:"description"`
	Results       DisplayMap `json:"results"`
	RelatedAgents []string   `json:"related_agents,omitempty"`
}
