// Package roadmap reconciles model-proposed plan items against the user's
// persisted roadmap.
package roadmap

import (
	"context"
	"sage/sage/agent"
	"sage/sage/sources/psql/dao"
	"sage/sage/sources/psql/models"
	"sage/sage/utils/logging"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBaselineCost seeds a scenario created from a proposal.
	DefaultBaselineCost = 100000

	// RefreshSimulationFunc is the function the client runs after a roadmap
	// mutation.
	RefreshSimulationFunc = "refresh_simulation"

	saveFailureNote = "\n\n> ⚠️ Your roadmap could not be saved. Please try again."
)

type Engine struct {
	dao *dao.RoadmapDAO
}

func NewEngine(roadmapDAO *dao.RoadmapDAO) *Engine {
	return &Engine{dao: roadmapDAO}
}

// Apply merges the response's roadmap proposal, if any, into the user's
// roadmap and returns the ids of the interventions it inserted.
//
// The active scenario is reused when one exists; otherwise one is created
// from the proposal title. Proposed items whose titles match an existing
// intervention case-insensitively are dropped, as are duplicates within the
// batch, regardless of what the model produced. A persistence failure never
// fails the turn: a note is appended to the outgoing message instead. On
// success the response action is overridden to EXECUTE_FUNC/refresh_simulation
// so the client refreshes derived views.
func (e *Engine) Apply(ctx context.Context, userID int, resp *agent.AgentResponse) []uuid.UUID {
	if resp == nil || resp.Data == nil || resp.Data.Type != "roadmap" || len(resp.Data.Interventions) == 0 {
		return nil
	}
	defer logging.LogDuration(ctx, "roadmap_apply")()

	scenario, err := e.dao.ActiveScenario(ctx, userID)
	if err != nil {
		e.noteFailure(resp, err)
		return nil
	}
	if scenario == nil {
		name := strings.TrimSpace(resp.Data.Title)
		if name == "" {
			name = "Decarbonization roadmap"
		}
		scenario, err = e.dao.CreateScenario(ctx, userID, name, DefaultBaselineCost)
		if err != nil {
			e.noteFailure(resp, err)
			return nil
		}
	}

	existing, err := e.dao.InterventionsForScenario(ctx, scenario.ID)
	if err != nil {
		e.noteFailure(resp, err)
		return nil
	}
	seen := make(map[string]bool, len(existing))
	for _, iv := range existing {
		seen[titleKey(iv.Title)] = true
	}

	var inserted []uuid.UUID
	for _, proposal := range resp.Data.Interventions {
		key := titleKey(proposal.Title)
		if key == "" || seen[key] {
			continue
		}
		intervention := models.Intervention{
			ScenarioID:          scenario.ID,
			Title:               strings.TrimSpace(proposal.Title),
			ImpactDescription:   proposal.ImpactDescription,
			CapexCost:           proposal.CapexCost,
			NPVValue:            proposal.NPVValue,
			ReductionPercentage: proposal.ReductionPercentage,
		}
		if err := e.dao.CreateIntervention(ctx, &intervention); err != nil {
			e.noteFailure(resp, err)
			return inserted
		}
		seen[key] = true
		inserted = append(inserted, intervention.ID)
	}

	resp.Action = agent.Action{Type: agent.ActionExecuteFunc, Payload: RefreshSimulationFunc}
	return inserted
}

func (e *Engine) noteFailure(resp *agent.AgentResponse, err error) {
	logging.ErrorLogger.Error("roadmap merge failed", zap.Error(err))
	if !strings.Contains(resp.Message, saveFailureNote) {
		resp.Message += saveFailureNote
	}
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
