package configs

import (
	"sage/sage/utils/logging"
	"strings"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

type AgentConfig struct {
	AgentName           string
	AgentRole           string
	Routes              map[string]string
	OutputInstructions  string
	RoadmapInstructions string
	AdditionalInfo      string
}

// Known client destinations. Keys are human labels the model may refer to,
// values are the route paths the client navigates to.
var defaultRoutes = map[string]string{
	"dashboard":   "/dashboard",
	"trading":     "/trading",
	"wallet":      "/wallet",
	"emissions":   "/emissions",
	"marketplace": "/marketplace",
	"roadmap":     "/roadmap",
	"settings":    "/settings",
}

const defaultOutputInstructions = `Respond with a single JSON object and nothing else:
{
  "message": "<markdown reply for the user>",
  "action": {"type": "NONE" | "NAVIGATE" | "REQUEST_ACCESS" | "EXECUTE_FUNC", "payload": "<route or function name>"},
  "data": {"type": "roadmap", "title": "<plan title>", "interventions": [{"title": "...", "impact_description": "...", "capex_cost": 0, "npv_value": 0, "reduction_percentage": 0}]}
}
"action" defaults to NONE; omit "data" unless you are proposing new roadmap items.
Do not wrap the object in prose.`

const defaultRoadmapInstructions = `When proposing roadmap interventions, never repeat a title already listed in the context snapshot.`

func LoadConfig() *AgentConfig {
	cfg := &AgentConfig{
		AgentName:           "Sage",
		AgentRole:           "carbon compliance copilot",
		Routes:              defaultRoutes,
		OutputInstructions:  defaultOutputInstructions,
		RoadmapInstructions: defaultRoadmapInstructions,
	}

	props, err := properties.LoadFile("sage/agent/configs/sage.properties", properties.UTF8)
	if err != nil {
		logging.AppLogger.Error("Agent config load error, using defaults", zap.Error(err))
		return cfg
	}

	cfg.AgentName = props.GetString("agent_name", cfg.AgentName)
	cfg.AgentRole = props.GetString("agent_role", cfg.AgentRole)
	cfg.OutputInstructions = props.GetString("output_instructions", cfg.OutputInstructions)
	cfg.RoadmapInstructions = props.GetString("roadmap_instructions", cfg.RoadmapInstructions)
	cfg.AdditionalInfo = props.GetString("additional_info", "")

	// routes are comma-separated label:path pairs
	if raw := props.GetString("navigable_routes", ""); raw != "" {
		routes := make(map[string]string)
		for _, pair := range strings.Split(raw, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
			if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
				routes[parts[0]] = parts[1]
			}
		}
		if len(routes) > 0 {
			cfg.Routes = routes
		}
	}

	return cfg
}
