package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sage/sage/agent"
	"sage/sage/roadmap"
	"sage/sage/sources/psql/dao"
	"sage/sage/types"
	"sage/sage/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrForbiddenSession is returned by read endpoints when the session does not
// belong to the caller.
var ErrForbiddenSession = errors.New("session not found or forbidden")

// SageController orchestrates one conversational turn: resolve session,
// append the user message, assemble context, call the gateway, merge any
// roadmap proposal, append the assistant message, return the envelope.
type SageController struct {
	sessions   *dao.SessionDAO
	messages   *dao.ChatMessageDAO
	aggregator *agent.Aggregator
	gateway    *agent.Gateway
	merger     *roadmap.Engine
}

func NewSageController(sessions *dao.SessionDAO, messages *dao.ChatMessageDAO, aggregator *agent.Aggregator, gateway *agent.Gateway, merger *roadmap.Engine) *SageController {
	return &SageController{
		sessions:   sessions,
		messages:   messages,
		aggregator: aggregator,
		gateway:    gateway,
		merger:     merger,
	}
}

// HandleTurn runs one turn. Errors returned here prevented producing any
// response; errors occurring after a usable response exists are folded into
// the response text instead.
func (c *SageController) HandleTurn(ctx context.Context, userID int, req types.TurnRequest) (*types.TurnResponse, error) {
	return c.handleTurn(ctx, userID, req, nil)
}

// HandleTurnWithProgress is HandleTurn with stage callbacks for the
// websocket route.
func (c *SageController) HandleTurnWithProgress(ctx context.Context, userID int, req types.TurnRequest, progress func(stage string)) (*types.TurnResponse, error) {
	return c.handleTurn(ctx, userID, req, progress)
}

func (c *SageController) handleTurn(ctx context.Context, userID int, req types.TurnRequest, progress func(stage string)) (*types.TurnResponse, error) {
	defer logging.LogDuration(ctx, "sage_turn")()
	notify := func(stage string) {
		if progress != nil {
			progress(stage)
		}
	}

	if req.Content == "" {
		return nil, fmt.Errorf("message must not be empty")
	}

	notify("Resolving session")
	session, err := c.sessions.Resolve(ctx, userID, req.SessionID, req.Content)
	if err != nil {
		return nil, err
	}

	if _, err := c.messages.Append(ctx, session.ID, dao.RoleUser, req.Content, ""); err != nil {
		return nil, err
	}

	notify("Gathering context")
	snap, err := c.aggregator.Collect(ctx, userID, session.ID)
	if err != nil {
		return nil, err
	}

	notify("Thinking")
	resp, err := c.gateway.Complete(ctx, snap, req.Content)
	if err != nil {
		return nil, err
	}

	// Never fatal: merge failures fold into the response text.
	c.merger.Apply(ctx, userID, resp)

	// A usable response exists from here on; persistence problems are logged
	// but the turn still answers.
	if _, err := c.messages.Append(ctx, session.ID, dao.RoleAssistant, resp.Message, actionJSON(resp)); err != nil {
		logging.ErrorLogger.Error("assistant message append failed",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	if err := c.sessions.Touch(ctx, session.ID); err != nil {
		logging.ErrorLogger.Error("session touch failed",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	}

	return &types.TurnResponse{
		Response:  resp.Raw(),
		SessionID: session.ID.String(),
	}, nil
}

// ListSessions returns the caller's threads, most recent first.
func (c *SageController) ListSessions(ctx context.Context, userID int) ([]types.SessionSummary, error) {
	sessions, err := c.sessions.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, types.SessionSummary{
			SessionID: s.ID.String(),
			Title:     s.Title,
			IsActive:  s.IsActive,
			UpdatedAt: s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return summaries, nil
}

// GetMessagesForSession returns every message of an owned session in order.
func (c *SageController) GetMessagesForSession(ctx context.Context, userID int, sessionID string) (interface{}, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrForbiddenSession
	}
	owns, err := c.sessions.Owns(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrForbiddenSession
	}
	return c.messages.ListForSession(ctx, id)
}

func actionJSON(resp *agent.AgentResponse) string {
	if resp.Action.Type == agent.ActionNone {
		return ""
	}
	raw, err := json.Marshal(resp.Action)
	if err != nil {
		return ""
	}
	return string(raw)
}
