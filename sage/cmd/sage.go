// Command-line driver: runs Sage turns against the configured store from a
// terminal, interpreting returned actions the way the web client would.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sage/sage/agent"
	"sage/sage/agent/actions"
	"sage/sage/agent/configs"
	"sage/sage/config"
	"sage/sage/controllers"
	"sage/sage/roadmap"
	"sage/sage/services/llm"
	"sage/sage/sources/psql"
	"sage/sage/sources/psql/dao"
	"sage/sage/types"
	"sage/sage/utils/logging"
	"strings"
	"time"

	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	args := os.Args[1:]
	if len(args) < 1 || args[0] != "connect" {
		fmt.Println("Sage CLI usage:")
		fmt.Println("  sage connect   # Start a conversation against the configured store")
		os.Exit(1)
	}

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	sessionDAO := dao.NewSessionDAO(db.DB)
	chatDAO := dao.NewChatMessageDAO(db.DB)
	roadmapDAO := dao.NewRoadmapDAO(db.DB)
	orgDAO := dao.NewOrgDAO(db.DB)

	agentCfg := configs.LoadConfig()
	completer := llm.NewOpenAIClient(cfg.CompletionAPIKey, cfg.CompletionBaseURL)
	gateway := agent.NewGateway(completer, agentCfg, cfg.PrimaryModel, cfg.FallbackModel)
	aggregator := agent.NewAggregator(orgDAO, chatDAO, roadmapDAO)
	merger := roadmap.NewEngine(roadmapDAO)
	ctrl := controllers.NewSageController(sessionDAO, chatDAO, aggregator, gateway, merger)

	executor := actions.NewExecutor()
	executor.Register(roadmap.RefreshSimulationFunc, func(ctx context.Context) error {
		fmt.Println("↻ simulation refreshed")
		return nil
	})

	userID := 1
	sessionID := ""
	currentRoute := "/dashboard"

	fmt.Println("Sage is connected. Type your message or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("sage> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		turnCtx, turnCancel := context.WithTimeout(context.Background(), 60*time.Second)
		resp, err := ctrl.HandleTurn(turnCtx, userID, types.TurnRequest{SessionID: sessionID, Content: line})
		turnCancel()
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		sessionID = resp.SessionID

		var reply agent.AgentResponse
		if err := json.Unmarshal([]byte(resp.Response), &reply); err != nil {
			fmt.Println(resp.Response)
			continue
		}
		fmt.Println(reply.Message)

		outcome := executor.Execute(context.Background(), reply.Action, currentRoute)
		switch outcome.Kind {
		case actions.OutcomeNavigate:
			currentRoute = outcome.Route
			fmt.Println("→ navigated to", outcome.Route)
		case actions.OutcomeAlreadyHere:
			fmt.Println("· already here:", outcome.Route)
		case actions.OutcomeAccess:
			fmt.Println("✓", outcome.FollowUp)
		case actions.OutcomeNotice:
			fmt.Println("·", outcome.Notice)
		}
	}
	fmt.Println("Goodbye!")
}
