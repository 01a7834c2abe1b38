package roadmap

import (
	"context"
	"sage/sage/agent"
	"sage/sage/sources/psql/dao"
	"sage/sage/sources/psql/models"
	"sage/sage/utils/logging"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupEngine(t *testing.T) (*Engine, *dao.RoadmapDAO, *gorm.DB) {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Scenario{}, &models.Intervention{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	roadmapDAO := dao.NewRoadmapDAO(db)
	return NewEngine(roadmapDAO), roadmapDAO, db
}

func roadmapResponse(titles ...string) *agent.AgentResponse {
	proposals := make([]agent.ProposedIntervention, 0, len(titles))
	for _, title := range titles {
		proposals = append(proposals, agent.ProposedIntervention{
			Title:               title,
			ImpactDescription:   "test impact",
			CapexCost:           10000,
			NPVValue:            2500,
			ReductionPercentage: 3.5,
		})
	}
	return &agent.AgentResponse{
		Message: "Here is your roadmap.",
		Action:  agent.Action{Type: agent.ActionNone},
		Data: &agent.RoadmapProposal{
			Type:          "roadmap",
			Title:         "Net zero plan",
			Interventions: proposals,
		},
	}
}

func TestApplyCreatesScenarioWhenNoneActive(t *testing.T) {
	e, roadmapDAO, _ := setupEngine(t)
	ctx := context.Background()

	resp := roadmapResponse("LED retrofit")
	inserted := e.Apply(ctx, 1, resp)
	if len(inserted) != 1 {
		t.Fatalf("expected 1 inserted intervention, got %d", len(inserted))
	}

	scenario, err := roadmapDAO.ActiveScenario(ctx, 1)
	if err != nil || scenario == nil {
		t.Fatalf("expected active scenario, got %v, %v", scenario, err)
	}
	if scenario.Name != "Net zero plan" {
		t.Errorf("scenario should take the proposal title, got %q", scenario.Name)
	}
	if scenario.BaselineCost != DefaultBaselineCost {
		t.Errorf("expected default baseline cost, got %v", scenario.BaselineCost)
	}
}

func TestApplyReusesActiveScenario(t *testing.T) {
	e, roadmapDAO, _ := setupEngine(t)
	ctx := context.Background()

	existing, err := roadmapDAO.CreateScenario(ctx, 1, "Existing plan", 50000)
	if err != nil {
		t.Fatalf("failed to seed scenario: %v", err)
	}

	e.Apply(ctx, 1, roadmapResponse("Solar panels"))

	scenario, _ := roadmapDAO.ActiveScenario(ctx, 1)
	if scenario.ID != existing.ID {
		t.Errorf("engine created a second scenario instead of reusing %v", existing.ID)
	}
	interventions, _ := roadmapDAO.InterventionsForScenario(ctx, existing.ID)
	if len(interventions) != 1 {
		t.Errorf("expected intervention attached to existing scenario, got %d", len(interventions))
	}
}

func TestApplyOverridesActionToRefreshSimulation(t *testing.T) {
	e, _, _ := setupEngine(t)
	resp := roadmapResponse("Heat pump")
	resp.Action = agent.Action{Type: agent.ActionNavigate, Payload: "/roadmap"}

	e.Apply(context.Background(), 1, resp)

	if resp.Action.Type != agent.ActionExecuteFunc || resp.Action.Payload != RefreshSimulationFunc {
		t.Errorf("expected EXECUTE_FUNC/refresh_simulation override, got %+v", resp.Action)
	}
}

func TestApplyDedupsAgainstExistingTitles(t *testing.T) {
	e, roadmapDAO, _ := setupEngine(t)
	ctx := context.Background()

	e.Apply(ctx, 1, roadmapResponse("LED retrofit"))
	inserted := e.Apply(ctx, 1, roadmapResponse("led retrofit ", "Solar panels"))
	if len(inserted) != 1 {
		t.Fatalf("expected only the new title inserted, got %d", len(inserted))
	}

	scenario, _ := roadmapDAO.ActiveScenario(ctx, 1)
	interventions, _ := roadmapDAO.InterventionsForScenario(ctx, scenario.ID)
	if len(interventions) != 2 {
		t.Errorf("expected 2 interventions total after dedup, got %d", len(interventions))
	}
}

func TestApplyDedupsWithinBatch(t *testing.T) {
	e, roadmapDAO, _ := setupEngine(t)
	ctx := context.Background()

	inserted := e.Apply(ctx, 1, roadmapResponse("Insulation", "insulation", "INSULATION"))
	if len(inserted) != 1 {
		t.Errorf("expected batch-internal dedup to keep one row, got %d", len(inserted))
	}
	scenario, _ := roadmapDAO.ActiveScenario(ctx, 1)
	interventions, _ := roadmapDAO.InterventionsForScenario(ctx, scenario.ID)
	if len(interventions) != 1 {
		t.Errorf("expected 1 intervention, got %d", len(interventions))
	}
}

func TestApplyIgnoresNonRoadmapResponses(t *testing.T) {
	e, roadmapDAO, _ := setupEngine(t)
	ctx := context.Background()

	resp := &agent.AgentResponse{Message: "plain answer", Action: agent.Action{Type: agent.ActionNone}}
	if inserted := e.Apply(ctx, 1, resp); inserted != nil {
		t.Errorf("expected no insertions, got %v", inserted)
	}
	if scenario, _ := roadmapDAO.ActiveScenario(ctx, 1); scenario != nil {
		t.Error("no scenario should be created for a non-roadmap response")
	}
	if resp.Action.Type != agent.ActionNone {
		t.Errorf("action must stay untouched, got %v", resp.Action.Type)
	}
}

func TestApplyPersistenceFailureDoesNotFailTurn(t *testing.T) {
	e, _, db := setupEngine(t)
	ctx := context.Background()

	// break the interventions relation so inserts fail
	if err := db.Migrator().DropTable(&models.Intervention{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	resp := roadmapResponse("LED retrofit")
	inserted := e.Apply(ctx, 1, resp)
	if len(inserted) != 0 {
		t.Errorf("expected no insertions, got %d", len(inserted))
	}
	if !strings.Contains(resp.Message, "could not be saved") {
		t.Errorf("expected save-failure note in message, got %q", resp.Message)
	}
	if resp.Action.Type == agent.ActionExecuteFunc {
		t.Error("failed merge must not claim success via refresh_simulation")
	}
}
