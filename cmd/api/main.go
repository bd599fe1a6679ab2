package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gaiaterm/internal/config"
	"gaiaterm/internal/handlers"
	"gaiaterm/internal/logger"
	"gaiaterm/internal/middleware"
	"gaiaterm/internal/services"
	"gaiaterm/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting GaiaTerm API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Error("Gemini API key is required when using gemini provider")
			os.Exit(1)
		}
		llmService = services.NewGeminiService(cfg.GeminiAPIKey, cfg.ModelName)
		log.Info("Using Gemini LLM provider")
	case "mock":
		// Deterministic canned narration for local development.
		llmService = services.NewMockLLM()
		log.Info("Using mock LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"gemini", "mock"})
		os.Exit(1)
	}

	var cache services.Cache = services.NewRedisService(cfg.RedisURL, log)
	cacheCtx, cacheCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cacheCancel()

	if err := cache.Ping(cacheCtx); err != nil {
		log.Error("Failed to connect to cache", "error", err)
		os.Exit(1)
	}
	log.Info("Cache connection established successfully")

	store, err := storage.Open(cfg.SQLitePath)
	if err != nil {
		log.Error("Failed to open contact storage", "error", err, "path", cfg.SQLitePath)
		os.Exit(1)
	}
	log.Info("Contact storage ready", "path", cfg.SQLitePath)

	initCtx, initCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	var mailer services.Mailer
	if cfg.MailerAPIKey != "" {
		mailer = services.NewRESTMailer(cfg.MailerAPIKey)
	} else {
		log.Warn("No mailer API key configured, contact mail delivery disabled")
		mailer = &services.MockMailer{}
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cache, store, log)
	mux.Handle("/health", healthHandler)

	turnHandler := handlers.NewTurnHandler(llmService, log)
	turnWindow := time.Duration(cfg.TurnRateWindow) * time.Second
	mux.Handle("/v1/turn", middleware.RateLimit(cache, cfg.TurnRateLimit, turnWindow, log, turnHandler))

	contactHandler := handlers.NewContactHandler(store, mailer, cfg.ContactEmail, log)
	mux.Handle("/v1/contact", contactHandler)

	geoHandler := handlers.NewGeoHandler(services.NewGeoIPService(cfg.GeoAPIURL), cache, log)
	mux.Handle("/v1/geo", geoHandler)

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := cache.Close(); err != nil {
		log.Error("Error closing cache connection", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing contact storage", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
