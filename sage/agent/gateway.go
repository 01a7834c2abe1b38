package agent

import (
	"context"
	"sage/sage/agent/configs"
	"sage/sage/services/llm"
	"sage/sage/utils/logging"

	"go.uber.org/zap"
)

// Gateway sends the assembled prompt to the completion service and parses the
// reply into the response contract.
type Gateway struct {
	completer llm.Completer
	cfg       *configs.AgentConfig
	primary   string
	fallback  string
}

func NewGateway(completer llm.Completer, cfg *configs.AgentConfig, primaryModel, fallbackModel string) *Gateway {
	return &Gateway{
		completer: completer,
		cfg:       cfg,
		primary:   primaryModel,
		fallback:  fallbackModel,
	}
}

// Complete runs one model call for the given snapshot and user message. A
// transport failure is retried once against the fallback model, then surfaced.
// A reply that fails the contract never fails the turn: it parses into a
// degraded response with a NONE action.
func (g *Gateway) Complete(ctx context.Context, snap *Snapshot, userMessage string) (*AgentResponse, error) {
	defer logging.LogDuration(ctx, "gateway_complete")()

	messages := []llm.Message{
		{Role: "system", Content: BuildSystemPrompt(g.cfg, snap)},
		{Role: "user", Content: userMessage},
	}

	raw, err := g.completer.Complete(ctx, g.primary, messages)
	if err != nil {
		logging.ErrorLogger.Error("primary completion failed, retrying with fallback",
			zap.String("model", g.primary), zap.Error(err))
		raw, err = g.completer.Complete(ctx, g.fallback, messages)
		if err != nil {
			return nil, err
		}
	}

	return ParseAgentResponse(raw), nil
}
