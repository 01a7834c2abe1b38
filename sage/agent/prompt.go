package agent

import (
	"fmt"
	"sage/sage/agent/configs"
	"sage/sage/utils/jsonutils"
	"sort"
	"strings"
)

// BuildSystemPrompt assembles the full grounding prompt: capability
// description, route map, output format, the serialized context snapshot and
// the trailing chat history.
func BuildSystemPrompt(cfg *configs.AgentConfig, snap *Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a %s. %s\n\n", cfg.AgentName, cfg.AgentRole, cfg.AdditionalInfo)

	b.WriteString("You can attach exactly one action to each reply:\n")
	b.WriteString("- NONE: just answer.\n")
	b.WriteString("- NAVIGATE: send the user to a destination; payload must be one of the route paths below.\n")
	b.WriteString("- REQUEST_ACCESS: ask the user to grant access before a sensitive step.\n")
	b.WriteString("- EXECUTE_FUNC: run a client function; payload is the function name (use refresh_simulation after roadmap changes).\n\n")

	b.WriteString("Navigable destinations:\n")
	labels := make([]string, 0, len(cfg.Routes))
	for label := range cfg.Routes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(&b, "- %s: %s\n", label, cfg.Routes[label])
	}
	b.WriteString("\n")

	b.WriteString(cfg.OutputInstructions)
	b.WriteString("\n\n")
	b.WriteString(cfg.RoadmapInstructions)
	b.WriteString("\n\n")

	b.WriteString("## Context snapshot\n")
	b.WriteString(jsonutils.ToJSON(snapshotBlock(snap)))
	b.WriteString("\n\n")

	if len(snap.History) > 0 {
		b.WriteString("## Recent conversation\n")
		for _, msg := range snap.History {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
	}

	return b.String()
}

// snapshotBlock shapes the snapshot into the structured block the prompt
// embeds. Only fields the model should ground on are included.
func snapshotBlock(snap *Snapshot) map[string]interface{} {
	block := map[string]interface{}{
		"organization":   snap.OrgName,
		"credit_balance": snap.CreditBalance,
	}

	txs := make([]map[string]interface{}, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		txs = append(txs, map[string]interface{}{
			"kind":        tx.Kind,
			"amount":      tx.Amount,
			"description": tx.Description,
		})
	}
	block["recent_transactions"] = txs

	entries := make([]map[string]interface{}, 0, len(snap.Emissions))
	for _, e := range snap.Emissions {
		entries = append(entries, map[string]interface{}{
			"source": e.Source,
			"scope":  e.Scope,
			"co2_kg": e.CO2Kg,
		})
	}
	block["recent_emissions"] = entries

	if snap.Scenario != nil {
		titles := make([]string, 0, len(snap.Interventions))
		for _, iv := range snap.Interventions {
			titles = append(titles, iv.Title)
		}
		block["active_scenario"] = map[string]interface{}{
			"name":                snap.Scenario.Name,
			"baseline_cost":       snap.Scenario.BaselineCost,
			"intervention_titles": titles,
		}
	}

	return block
}
