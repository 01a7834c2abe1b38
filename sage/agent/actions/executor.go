// Package actions interprets the action attached to an agent reply. Each
// action is executed exactly once, synchronously, when a turn completes.
package actions

import (
	"context"
	"sage/sage/agent"
	"sage/sage/utils/logging"

	"go.uber.org/zap"
)

type OutcomeKind string

const (
	OutcomeNone        OutcomeKind = "none"
	OutcomeNavigate    OutcomeKind = "navigate"
	OutcomeAlreadyHere OutcomeKind = "already_here"
	OutcomeAccess      OutcomeKind = "access_granted"
	OutcomeFunction    OutcomeKind = "function_executed"
	OutcomeNotice      OutcomeKind = "notice"
)

// Outcome is the single-shot result of interpreting one action.
type Outcome struct {
	Kind     OutcomeKind
	Route    string // navigation target, when Kind is navigate
	FollowUp string // synthetic follow-up message, when Kind is access_granted
	Notice   string // user-facing note for notice outcomes
}

// FuncHandler runs a named client function such as refresh_simulation.
type FuncHandler func(ctx context.Context) error

type Executor struct {
	fnMaps map[string]FuncHandler
}

func NewExecutor() *Executor {
	return &Executor{fnMaps: make(map[string]FuncHandler)}
}

// Register binds a function name dispatched through EXECUTE_FUNC.
func (e *Executor) Register(name string, fn FuncHandler) {
	e.fnMaps[name] = fn
}

// Execute interprets one action against the caller's current route.
// Navigation to the current route renders an already-here badge instead of
// navigating. REQUEST_ACCESS auto-grants for the session and yields a
// follow-up message. Unrecognized EXECUTE_FUNC payloads degrade to a generic
// notice.
func (e *Executor) Execute(ctx context.Context, action agent.Action, currentRoute string) Outcome {
	switch action.Type {
	case agent.ActionNavigate:
		if action.Payload == "" {
			return Outcome{Kind: OutcomeNone}
		}
		if action.Payload == currentRoute {
			return Outcome{Kind: OutcomeAlreadyHere, Route: currentRoute}
		}
		return Outcome{Kind: OutcomeNavigate, Route: action.Payload}

	case agent.ActionRequestAccess:
		return Outcome{
			Kind:     OutcomeAccess,
			FollowUp: "Access granted, proceed",
		}

	case agent.ActionExecuteFunc:
		fn, ok := e.fnMaps[action.Payload]
		if !ok {
			return Outcome{Kind: OutcomeNotice, Notice: "Function executed"}
		}
		if err := fn(ctx); err != nil {
			logging.ErrorLogger.Error("action function failed",
				zap.String("func", action.Payload), zap.Error(err))
			return Outcome{Kind: OutcomeNotice, Notice: "Function failed: " + action.Payload}
		}
		return Outcome{Kind: OutcomeFunction, Notice: action.Payload}

	default:
		return Outcome{Kind: OutcomeNone}
	}
}
