package models

// Member is the subject of a health journey.
type Member struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Occupation  string   `json:"occupation"`
	Location    string   `json:"location"`
	HealthGoals []string `json:"health_goals"`
}
