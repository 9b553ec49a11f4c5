package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Message represents a chat message between the member and an agent.
type Message struct {
	ID          string      `json:"id"`
	MemberID    string      `json:"member_id,omitempty"`
	AgentID     string      `json:"agent_id,omitempty"`
	AgentName   string      `json:"agent_name"`
	AgentRole   string      `json:"agent_role,omitempty"`
	Content     string      `json:"content"`
	MessageType string      `json:"message_type"`
	Timestamp   string      `json:"timestamp"` // ISO 8601, not validated
	ContextData ContextData `json:"context_data"`
}

// ContextData is the loosely-typed context bag attached to a message.
// A zero Month means the backend did not attribute the message to a month.
type ContextData struct {
	Day               int    `json:"day,omitempty"`
	Month             int    `json:"month,omitempty"`
	IsMemberInitiated bool   `json:"is_member_initiated,omitempty"`
	Sender            string `json:"sender,omitempty"`
	Urgency           string `json:"urgency,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Fields of the wrong type
// decode to their zero value. Numeric strings count as numbers and "true"
// or 1 count as true.
func (c *ContextData) UnmarshalJSON(data []byte) error {
	*c = ContextData{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// not an object
		return nil
	}

	c.Day = looseInt(raw["day"])
	c.Month = looseInt(raw["month"])
	c.IsMemberInitiated = looseBool(raw["is_member_initiated"])
	c.Sender = looseString(raw["sender"])
	c.Urgency = looseString(raw["urgency"])
	return nil
}

func looseInt(v json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func looseBool(v json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f != 0
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		b, _ := strconv.ParseBool(strings.TrimSpace(s))
		return b
	}
	return false
}

func looseString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return ""
}
