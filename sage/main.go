package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sage/sage/agent"
	"sage/sage/agent/configs"
	"sage/sage/config"
	"sage/sage/controllers"
	"sage/sage/roadmap"
	"sage/sage/routes"
	"sage/sage/services/llm"
	"sage/sage/sources/psql"
	"sage/sage/sources/psql/dao"
	"sage/sage/utils/logging"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.ErrorLogger.Error("configuration error", zap.Error(err))
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
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

	sageCtrl := controllers.NewSageController(sessionDAO, chatDAO, aggregator, gateway, merger)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/sage", routes.SageRoutes(sageCtrl, cfg))

	srv := &http.Server{
		Addr:    ":8000",
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
