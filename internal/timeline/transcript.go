package timeline

import (
	"sort"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// memberSenders are agent names that denote the member's own messages.
var memberSenders = map[string]bool{"Rohan": true, "Member": true}

var typeLabels = map[string]string{
	"member_question":    "Question",
	"agent_response":     "Response",
	"plan_adjustment":    "Plan Update",
	"exercise_update":    "Exercise",
	"diagnostic_results": "Results",
}

// Entry is one message as the chat transcript shows it.
type Entry struct {
	Message   models.Message `json:"message"`
	IsMember  bool           `json:"is_member"`
	TypeLabel string         `json:"type_label"`
	Time      string         `json:"time"`
	Urgency   string         `json:"urgency,omitempty"`
}

// DayGroup is the transcript for one calendar day. Date is empty for the
// group holding messages whose timestamp could not be parsed.
type DayGroup struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Entries []Entry `json:"entries"`
}

// Transcript is the chat view for a month selection.
type Transcript struct {
	SelectedMonth int        `json:"selected_month,omitempty"`
	Count         int        `json:"count"`
	Days          []DayGroup `json:"days"`
}

// IsMemberMessage reports whether a message was written by the member.
func IsMemberMessage(msg models.Message) bool {
	return msg.ContextData.IsMemberInitiated || memberSenders[msg.AgentName]
}

// TypeLabel returns the display label of a message type.
func TypeLabel(messageType string) string {
	if l, ok := typeLabels[messageType]; ok {
		return l
	}
	return typeLabels["agent_response"]
}

// BuildTranscript filters messages to month (0 for all) and groups them by
// day in ascending date order. Messages keep their input order within a day.
func BuildTranscript(messages []models.Message, month int) Transcript {
	filtered := FilterByMonth(messages, month)

	groups := make(map[string]*DayGroup)
	var undated *DayGroup

	for _, msg := range filtered {
		entry := Entry{
			Message:   msg,
			IsMember:  IsMemberMessage(msg),
			TypeLabel: TypeLabel(msg.MessageType),
			Urgency:   msg.ContextData.Urgency,
		}

		t, ok := ParseTime(msg.Timestamp)
		if !ok {
			if undated == nil {
				undated = &DayGroup{Label: "Undated"}
			}
			undated.Entries = append(undated.Entries, entry)
			continue
		}
		entry.Time = t.Format("15:04")

		date := t.Format("2006-01-02")
		g, exists := groups[date]
		if !exists {
			g = &DayGroup{Date: date, Label: t.Format("Monday, January 2, 2006")}
			groups[date] = g
		}
		g.Entries = append(g.Entries, entry)
	}

	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	days := make([]DayGroup, 0, len(dates)+1)
	for _, d := range dates {
		days = append(days, *groups[d])
	}
	if undated != nil {
		days = append(days, *undated)
	}

	return Transcript{SelectedMonth: month, Count: len(filtered), Days: days}
}
