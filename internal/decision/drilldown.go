// Package decision explains agent messages: the intervention analysis behind
// the drill-down modal and the traceability view.
package decision

import (
	"fmt"
	"strings"

	"github.com/eldtechnologies/journeyboard/internal/biomarker"
	"github.com/eldtechnologies/journeyboard/internal/models"
)

// Intervention is one inferred intervention and how it turned out by the
// following month.
type Intervention struct {
	Intervention    string `json:"intervention"`
	Reasoning       string `json:"reasoning"`
	ExpectedOutcome string `json:"expected_outcome"`
	ActualOutcome   string `json:"actual_outcome,omitempty"`
	Success         bool   `json:"success"`
	Timeframe       string `json:"timeframe"`
}

// MemberProfile is the clinical framing shown beside the analysis.
type MemberProfile struct {
	Age         int      `json:"age"`
	Condition   string   `json:"condition"`
	Goals       []string `json:"goals"`
	RiskFactors []string `json:"risk_factors"`
}

// HealthContext summarizes the member's state in the message's month.
type HealthContext struct {
	PrimaryConcern string `json:"primary_concern"`
	Urgency        string `json:"urgency"`
	Trend          string `json:"trend"`
}

// Reasoning lists what the agent weighed.
type Reasoning struct {
	DataConsidered  []string `json:"data_considered"`
	DecisionFactors []string `json:"decision_factors"`
}

// Context is the decision context panel.
type Context struct {
	MemberProfile MemberProfile `json:"member_profile"`
	CurrentHealth HealthContext `json:"current_health"`
	AIReasoning   Reasoning     `json:"ai_reasoning"`
}

// Analysis is the content of the decision drill-down modal.
type Analysis struct {
	Message       models.Message    `json:"message"`
	CurrentMonth  int               `json:"current_month"`
	NextMonth     int               `json:"next_month"`
	Current       models.Biomarkers `json:"current_biomarkers,omitempty"`
	Next          models.Biomarkers `json:"next_biomarkers,omitempty"`
	Interventions []Intervention    `json:"interventions"`
	Context       Context           `json:"context"`
}

// elevatedSystolic is the systolic reading above which blood pressure is the
// primary concern.
const elevatedSystolic = 130

// DrillDown infers the interventions behind an agent message from the agent
// and keywords in its content, and checks each against the next month's
// biomarkers. Without a next month nothing counts as a measured improvement.
func DrillDown(msg models.Message, states []models.JourneyState) Analysis {
	current := msg.ContextData.Month
	if current == 0 {
		current = 1
	}
	next := current + 1

	cur := stateBiomarkers(states, current)
	nxt := stateBiomarkers(states, next)

	a := Analysis{
		Message:      msg,
		CurrentMonth: current,
		NextMonth:    next,
		Current:      cur,
		Next:         nxt,
	}
	a.Interventions = interventions(msg, cur, nxt)
	a.Context = decisionContext(msg, cur)
	return a
}

func stateBiomarkers(states []models.JourneyState, month int) models.Biomarkers {
	for _, s := range states {
		if s.Month == month {
			return s.Biomarkers
		}
	}
	return nil
}

func mentions(content string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(content, w) {
			return true
		}
	}
	return false
}

func interventions(msg models.Message, cur, nxt models.Biomarkers) []Intervention {
	var out []Intervention
	agent := msg.AgentName
	content := strings.ToLower(msg.Content)

	if agent == "Dr. Warren" || mentions(content, "blood pressure", "medical") {
		curBP := cur.Or(models.KeyBloodPressure, "0/0")
		nxtBP := nxt.Or(models.KeyBloodPressure, "0/0")
		curSys, okCur := biomarker.Int(strings.SplitN(curBP, "/", 2)[0])
		nxtSys, okNxt := biomarker.Int(strings.SplitN(nxtBP, "/", 2)[0])
		lowered := nxt != nil && okCur && okNxt && nxtSys < curSys

		actual := "BP monitoring continues"
		if lowered {
			actual = fmt.Sprintf("BP reduced from %s to %s", curBP, nxtBP)
		}
		out = append(out, Intervention{
			Intervention:    "Medical Monitoring & BP Management",
			Reasoning:       "Patient shows pre-hypertensive readings requiring immediate intervention",
			ExpectedOutcome: "Reduce systolic BP by 5-10 mmHg through lifestyle modifications",
			ActualOutcome:   actual,
			Success:         lowered,
			Timeframe:       "30 days",
		})
	}

	if agent == "Carla" || mentions(content, "exercise", "workout", "gym") {
		curW := biomarker.Kilograms(cur.Get(models.KeyWeight))
		nxtW := biomarker.Kilograms(nxt.Get(models.KeyWeight))

		actual := "Muscle building phase"
		if nxt != nil && nxtW < curW {
			actual = fmt.Sprintf("Weight reduced by %.1fkg", curW-nxtW)
		}
		// exercise counts as a success even without weight loss
		out = append(out, Intervention{
			Intervention:    "Personalized Exercise Program",
			Reasoning:       "Tailored fitness plan to improve cardiovascular health and weight management",
			ExpectedOutcome: "Achieve 0.5-1kg weight loss and improved cardiovascular fitness",
			ActualOutcome:   actual,
			Success:         true,
			Timeframe:       "30 days",
		})
	}

	if agent == "Ruby" || mentions(content, "meal", "nutrition", "diet") {
		out = append(out, Intervention{
			Intervention:    "Nutritional Strategy Adjustment",
			Reasoning:       "Optimize macronutrient balance for metabolic health and sustainable weight loss",
			ExpectedOutcome: "Improve adherence and metabolic markers",
			ActualOutcome:   "Enhanced meal planning and nutrient timing implemented",
			Success:         true,
			Timeframe:       "14 days",
		})
	}

	if agent == "Rachel" || mentions(content, "stress", "mental", "wellness") {
		curS, okCur := biomarker.Int(strings.SplitN(cur.Or(models.KeyStressLevel, "0"), "/", 2)[0])
		nxtS, okNxt := biomarker.Int(strings.SplitN(nxt.Or(models.KeyStressLevel, "0"), "/", 2)[0])

		actual := "Stress management ongoing"
		measured := nxt != nil && okCur && okNxt
		if measured && nxtS < curS {
			actual = fmt.Sprintf("Stress reduced from %d/10 to %d/10", curS, nxtS)
		}
		out = append(out, Intervention{
			Intervention:    "Stress Management Protocol",
			Reasoning:       "High stress levels impact cortisol and cardiovascular health",
			ExpectedOutcome: "Reduce stress level by 1-2 points through mindfulness techniques",
			ActualOutcome:   actual,
			Success:         measured && nxtS <= curS,
			Timeframe:       "21 days",
		})
	}

	if agent == "Advik" || mentions(content, "data", "performance", "metrics") {
		out = append(out, Intervention{
			Intervention:    "Data-Driven Optimization",
			Reasoning:       "Analyze wearable data to identify patterns and optimization opportunities",
			ExpectedOutcome: "Improve sleep quality and recovery metrics",
			ActualOutcome:   "Identified sleep pattern improvements and HRV optimization",
			Success:         true,
			Timeframe:       "7 days",
		})
	}

	if agent == "Neel" || mentions(content, "coordination", "team", "check") {
		out = append(out, Intervention{
			Intervention:    "Care Coordination Enhancement",
			Reasoning:       "Ensure all specialists are aligned and member has comprehensive support",
			ExpectedOutcome: "Improved adherence through better communication and support",
			ActualOutcome:   "Enhanced inter-agent coordination and member engagement",
			Success:         true,
			Timeframe:       "Ongoing",
		})
	}

	if len(out) == 0 {
		out = append(out, Intervention{
			Intervention:    "Personalized Health Guidance",
			Reasoning:       "Provide targeted advice based on member's current health status and goals",
			ExpectedOutcome: "Support continued progress toward health goals",
			ActualOutcome:   "Guidance provided and member engagement maintained",
			Success:         true,
			Timeframe:       "Immediate",
		})
	}
	return out
}

func decisionContext(msg models.Message, cur models.Biomarkers) Context {
	concern := "General wellness"
	if bp := cur.Get(models.KeyBloodPressure); bp != "" && biomarker.Systolic(bp) > elevatedSystolic {
		concern = "Elevated blood pressure"
	}

	urgency := msg.ContextData.Urgency
	if urgency == "" {
		urgency = "medium"
	}

	return Context{
		MemberProfile: MemberProfile{
			Age:         46,
			Condition:   "Pre-hypertension",
			Goals:       []string{"Reduce cardiovascular risk", "Improve fitness", "Stress management"},
			RiskFactors: []string{"Family history of heart disease", "High stress job", "Frequent travel"},
		},
		CurrentHealth: HealthContext{
			PrimaryConcern: concern,
			Urgency:        urgency,
			Trend:          "Improving with interventions",
		},
		AIReasoning: Reasoning{
			DataConsidered: []string{
				"Current biomarker readings",
				"Historical trend analysis",
				"Member-specific risk factors",
				"Previous intervention outcomes",
				"Behavioral patterns from wearables",
			},
			DecisionFactors: []string{
				"Evidence-based medicine protocols",
				"Personalized risk assessment",
				"Member lifestyle constraints",
				"Multi-agent care coordination",
			},
		},
	}
}
