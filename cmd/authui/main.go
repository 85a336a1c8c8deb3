package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Wiz-2/frontend-login/internal/apiclient"
	"github.com/Wiz-2/frontend-login/internal/authflow"
	"github.com/Wiz-2/frontend-login/internal/config"
	"github.com/Wiz-2/frontend-login/internal/metrics"
	"github.com/Wiz-2/frontend-login/internal/version"
	"github.com/Wiz-2/frontend-login/internal/web"
	"github.com/Wiz-2/frontend-login/internal/web/handlers"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "[authui] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting login UI %s...", version.GetFullVersion())

	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatalf("Failed to load .env: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Println("Configuration loaded successfully")

	client := apiclient.New(cfg.API.BaseURL, cfg.API.RequestTimeout, logger)
	logger.Printf("Authentication API: %s", client.BaseURL())

	// Metrics read the view count lazily, so the registry can be created first
	var views *authflow.Views
	var m *metrics.Metrics
	var observer authflow.Observer
	if cfg.Metrics.Enabled {
		m = metrics.New(func() float64 { return float64(views.Len()) })
		observer = m
		logger.Printf("Metrics enabled at %s", cfg.Metrics.Path)
	}

	views, err = authflow.NewViews(cfg.UI.MaxViews, func() *authflow.Controller {
		return authflow.NewController(client, cfg.UI.RedirectDelay, observer, logger)
	})
	if err != nil {
		logger.Fatalf("Failed to initialize views: %v", err)
	}

	h := handlers.New(views, version.GetVersion(), logger)
	router := web.NewRouter(cfg, h, m, logger)

	// HTTP server configuration
	srv := &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Printf("Server starting on %s", cfg.GetBaseURL())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited successfully")
}
