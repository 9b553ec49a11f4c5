package decision

import (
	"fmt"
	"strings"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/models"
)

const (
	noBiomarkers    = "Biomarker data not available"
	genericOutcome  = "This intervention supports continued progress toward normalized blood pressure and improved metabolic health."
	ongoingOutcome  = "Contributed to ongoing health maintenance and goal achievement"
	notAvailable    = "N/A"
	defaultRoleText = "Care Team"
)

// TraceView is the content of the traceability modal.
type TraceView struct {
	MessageID     string `json:"message_id"`
	Month         int    `json:"month"`
	AgentName     string `json:"agent_name"`
	AgentRole     string `json:"agent_role"`
	MessageType   string `json:"message_type"`
	Timestamp     string `json:"timestamp"`
	HealthContext string `json:"health_context"`
	Rationale     string `json:"rationale"`
	Outcome       string `json:"outcome"`
	Contribution  string `json:"contribution,omitempty"`
}

// monthReadings is the display subset of a month's biomarkers, "N/A" where a
// key is missing.
type monthReadings struct {
	weight, bp, stress, sleep string
}

func readings(states []models.JourneyState, month int) (monthReadings, bool) {
	for _, s := range states {
		if s.Month != month {
			continue
		}
		if s.Biomarkers == nil {
			return monthReadings{}, false
		}
		b := s.Biomarkers
		return monthReadings{
			weight: b.Or(models.KeyWeight, notAvailable),
			bp:     b.Or(models.KeyBloodPressure, notAvailable),
			stress: b.Or(models.KeyStressLevel, notAvailable),
			sleep:  b.Or(models.KeySleepAverage, notAvailable),
		}, true
	}
	return monthReadings{}, false
}

// Trace explains a message: the member's health context that month, why the
// agent sent it, and what changed by the next month. agents resolves the role
// when the message does not carry one.
func Trace(msg models.Message, states []models.JourneyState, agents []models.Agent) TraceView {
	month := msg.ContextData.Month
	tv := TraceView{
		MessageID:   msg.ID,
		Month:       month,
		AgentName:   msg.AgentName,
		AgentRole:   agentRole(msg, agents),
		MessageType: msg.MessageType,
		Timestamp:   msg.Timestamp,
	}

	if cur, ok := readings(states, month); ok {
		tv.HealthContext = fmt.Sprintf("BP: %s | Weight: %s | Sleep: %s | Stress: %s", cur.bp, cur.weight, cur.sleep, cur.stress)
	} else {
		tv.HealthContext = noBiomarkers
	}

	tv.Rationale = fmt.Sprintf("%s (%s) provided targeted guidance based on %s", tv.AgentName, tv.AgentRole, rationaleBasis(msg.MessageType))
	tv.Outcome = outcome(states, month)
	tv.Contribution = contribution(states)
	return tv
}

func agentRole(msg models.Message, agents []models.Agent) string {
	if msg.AgentRole != "" {
		return msg.AgentRole
	}
	for _, a := range agents {
		if a.Name == msg.AgentName || (msg.AgentID != "" && a.ID == msg.AgentID) {
			return a.Role
		}
	}
	return defaultRoleText
}

func rationaleBasis(messageType string) string {
	switch messageType {
	case "agent_response":
		return "specific member question and current health metrics"
	case "proactive_check_in":
		return "proactive monitoring protocol and biomarker trends"
	default:
		return "routine care coordination and member progress"
	}
}

func outcome(states []models.JourneyState, month int) string {
	cur, okCur := readings(states, month)
	nxt, okNxt := readings(states, month+1)
	if !okCur || !okNxt {
		return genericOutcome
	}

	var improvements []string
	curW, okA := biomarker.Float(cur.weight)
	nxtW, okB := biomarker.Float(nxt.weight)
	if okA && okB && curW > nxtW {
		improvements = append(improvements, fmt.Sprintf("Weight reduction (%s → %s)", cur.weight, nxt.weight))
	}

	curSys, okA := biomarker.Int(strings.SplitN(cur.bp, "/", 2)[0])
	nxtSys, okB := biomarker.Int(strings.SplitN(nxt.bp, "/", 2)[0])
	if okA && okB && curSys > nxtSys {
		improvements = append(improvements, fmt.Sprintf("BP improvement (%s → %s)", cur.bp, nxt.bp))
	}

	if len(improvements) == 0 {
		return ongoingOutcome
	}
	return "Achieved: " + strings.Join(improvements, ", ")
}

// contribution describes the whole journey from the first to the last
// recorded month. Empty when fewer than two months are recorded.
func contribution(states []models.JourneyState) string {
	if len(states) < 2 {
		return ""
	}
	first, last := states[0], states[0]
	for _, s := range states[1:] {
		if s.Month < first.Month {
			first = s
		}
		if s.Month > last.Month {
			last = s
		}
	}
	if first.Month == last.Month {
		return ""
	}
	return fmt.Sprintf("Part of a %d-month journey: BP %s → %s, weight %s → %s, stress %s → %s",
		last.Month-first.Month+1,
		first.Biomarkers.Or(models.KeyBloodPressure, notAvailable), last.Biomarkers.Or(models.KeyBloodPressure, notAvailable),
		first.Biomarkers.Or(models.KeyWeight, notAvailable), last.Biomarkers.Or(models.KeyWeight, notAvailable),
		first.Biomarkers.Or(models.KeyStressLevel, notAvailable), last.Biomarkers.Or(models.KeyStressLevel, notAvailable),
	)
}
