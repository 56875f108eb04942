package main

import (
	"log"
	"net/http"

	"storm_drain/internal/agent"
	"storm_drain/internal/alert"
	"storm_drain/internal/cache"
	"storm_drain/internal/config"
	"storm_drain/internal/controllers"
	"storm_drain/internal/llm"
	"storm_drain/internal/logger"
	"storm_drain/internal/middleware"
	"storm_drain/internal/risk"
	"storm_drain/internal/routes"
	"storm_drain/internal/store"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()
	settings := config.LoadSettings()

	// Storage + risk pipeline
	drainageStore := store.NewDrainageStore(config.GetDB())
	analyzer := risk.NewAnalyzer(drainageStore)

	// LLM + agent pipeline
	llmCfg := llm.Config{
		BaseURL: settings.LLMBaseURL,
		APIKey:  settings.LLMAPIKey,
		Model:   settings.LLMModel,
		Timeout: settings.LLMTimeout,
	}
	client := llm.NewClient(llmCfg)
	notifier := alert.NewNotifier(settings.AdminWebhookURL)
	executor := agent.NewToolExecutor(drainageStore, notifier)
	chatAgent := agent.New(client, llmCfg, drainageStore, executor, settings.FallbackEnabled)

	// Optional list cache
	listCache := cache.NewService(settings.RedisHost, settings.RedisPort)
	defer listCache.Close()

	// Setup Gin router
	r := routes.SetupRouter(routes.Controllers{
		Ingestion: controllers.NewIngestionController(drainageStore, analyzer),
		Drainage:  controllers.NewDrainageController(drainageStore, listCache),
		Chat:      controllers.NewChatController(chatAgent, settings.ChatTimeout),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + settings.Port
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
