package agent

import (
	"encoding/json"
	"sage/sage/utils/jsonutils"
)

type ActionType string

const (
	ActionNone          ActionType = "NONE"
	ActionNavigate      ActionType = "NAVIGATE"
	ActionRequestAccess ActionType = "REQUEST_ACCESS"
	ActionExecuteFunc   ActionType = "EXECUTE_FUNC"
)

// Action is what the agent asks the client to do after the turn. Payload is a
// route path for NAVIGATE and a function name for EXECUTE_FUNC.
type Action struct {
	Type    ActionType `json:"type"`
	Payload string     `json:"payload,omitempty"`
}

type ProposedIntervention struct {
	Title               string  `json:"title"`
	ImpactDescription   string  `json:"impact_description"`
	CapexCost           float64 `json:"capex_cost"`
	NPVValue            float64 `json:"npv_value"`
	ReductionPercentage float64 `json:"reduction_percentage"`
}

// RoadmapProposal is present only when the agent proposes new planning items.
type RoadmapProposal struct {
	Type          string                 `json:"type"`
	Title         string                 `json:"title"`
	Interventions []ProposedIntervention `json:"interventions"`
}

type AgentResponse struct {
	Message string           `json:"message"`
	Action  Action           `json:"action"`
	Data    *RoadmapProposal `json:"data,omitempty"`
}

// DegradedNotice is appended to the raw model text when the reply could not
// be parsed as the expected contract.
const DegradedNotice = "\n\n> ⚠️ Sage returned an unstructured reply; shown as-is."

// ParseAgentResponse interprets raw completion text defensively. Fenced or
// bare JSON parses into the contract; anything else degrades to the raw text
// with a visible notice and a NONE action. It never fails.
func ParseAgentResponse(raw string) *AgentResponse {
	extracted := jsonutils.ExtractJSON(raw)

	var resp AgentResponse
	if err := json.Unmarshal([]byte(extracted), &resp); err != nil || resp.Message == "" {
		return &AgentResponse{
			Message: raw + DegradedNotice,
			Action:  Action{Type: ActionNone},
		}
	}
	resp.normalize()
	return &resp
}

// normalize defaults an absent or unrecognized action to NONE and drops data
// blocks that are not roadmap proposals.
func (r *AgentResponse) normalize() {
	switch r.Action.Type {
	case ActionNavigate, ActionRequestAccess, ActionExecuteFunc:
	default:
		r.Action = Action{Type: ActionNone}
	}
	if r.Data != nil && r.Data.Type != "roadmap" {
		r.Data = nil
	}
}

// Raw serializes the response back to the wire form handed to the client.
func (r *AgentResponse) Raw() string {
	bytes, err := json.Marshal(r)
	if err != nil {
		return `{"message":"internal serialization error","action":{"type":"NONE"}}`
	}
	return string(bytes)
}
