package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/agentrouter/api"
	"github.com/xiaot623/agentrouter/config"
	"github.com/xiaot623/agentrouter/directory"
	"github.com/xiaot623/agentrouter/llm"
	"github.com/xiaot623/agentrouter/logging"
	"github.com/xiaot623/agentrouter/policy"
	"github.com/xiaot623/agentrouter/router"
	"github.com/xiaot623/agentrouter/workflow"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	logger.Info("starting agent router",
		"http_port", cfg.HTTPPort,
		"agent_json_url", cfg.AgentJSONURL,
		"router_model", cfg.RouterModel,
	)

	// Initialize directory fetcher and workflow client
	fetcher := directory.NewFetcher(cfg.DirectoryTimeout, logger)
	workflowClient := workflow.NewClient(cfg.InvokeTimeout, cfg.MaxStreamEvents, logger)
	network := directory.NewNetwork(fetcher, workflowClient, cfg.LLMTimeout, logger)

	// Initialize routing LLM client and router
	llmClient := llm.NewClient(cfg.RouterLLMURL, cfg.RouterLLMAPIKey, cfg.LLMTimeout)
	queryRouter := router.New(llmClient, cfg.RouterModel, logger)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize handlers
	h := api.NewHandler(network, fetcher, queryRouter, policyEngine, cfg, logger)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	logger.Info("agent router started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down agent router")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server gracefully", "error", err)
	}

	logger.Info("agent router stopped")
}
