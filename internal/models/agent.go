package models

// Agent represents a coaching persona that authors messages.
type Agent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Specialty     string `json:"specialty"`
	PersonaPrompt string `json:"persona_prompt,omitempty"`
}
