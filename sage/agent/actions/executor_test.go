package actions

import (
	"context"
	"errors"
	"sage/sage/agent"
	"sage/sage/utils/logging"
	"testing"
)

func setupExecutor() *Executor {
	logging.InitLogger()
	return NewExecutor()
}

func TestExecuteNoneIsNoop(t *testing.T) {
	e := setupExecutor()
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionNone}, "/dashboard")
	if outcome.Kind != OutcomeNone {
		t.Errorf("expected none outcome, got %v", outcome.Kind)
	}
}

func TestExecuteNavigate(t *testing.T) {
	e := setupExecutor()
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionNavigate, Payload: "/trading"}, "/dashboard")
	if outcome.Kind != OutcomeNavigate || outcome.Route != "/trading" {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}

func TestExecuteNavigateToCurrentRoute(t *testing.T) {
	e := setupExecutor()
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionNavigate, Payload: "/trading"}, "/trading")
	if outcome.Kind != OutcomeAlreadyHere {
		t.Errorf("expected already-here badge, got %v", outcome.Kind)
	}
}

func TestExecuteRequestAccessAutoGrants(t *testing.T) {
	e := setupExecutor()
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionRequestAccess}, "/dashboard")
	if outcome.Kind != OutcomeAccess {
		t.Errorf("expected access outcome, got %v", outcome.Kind)
	}
	if outcome.FollowUp == "" {
		t.Error("expected a synthetic follow-up message")
	}
}

func TestExecuteRegisteredFunction(t *testing.T) {
	e := setupExecutor()
	ran := false
	e.Register("refresh_simulation", func(ctx context.Context) error {
		ran = true
		return nil
	})
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionExecuteFunc, Payload: "refresh_simulation"}, "/dashboard")
	if outcome.Kind != OutcomeFunction {
		t.Errorf("expected function outcome, got %v", outcome.Kind)
	}
	if !ran {
		t.Error("registered function did not run")
	}
}

func TestExecuteUnknownFunctionDegradesToNotice(t *testing.T) {
	e := setupExecutor()
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionExecuteFunc, Payload: "launch_rocket"}, "/dashboard")
	if outcome.Kind != OutcomeNotice {
		t.Errorf("expected generic notice, got %v", outcome.Kind)
	}
}

func TestExecuteFailingFunction(t *testing.T) {
	e := setupExecutor()
	e.Register("broken", func(ctx context.Context) error { return errors.New("boom") })
	outcome := e.Execute(context.Background(), agent.Action{Type: agent.ActionExecuteFunc, Payload: "broken"}, "/dashboard")
	if outcome.Kind != OutcomeNotice {
		t.Errorf("expected notice for failing function, got %v", outcome.Kind)
	}
}
