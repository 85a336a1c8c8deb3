// Command devapi serves /api/login and /api/register over a local SQLite
// database so the login UI can be run without the real backend.
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

	"github.com/Wiz-2/frontend-login/internal/config"
	"github.com/Wiz-2/frontend-login/internal/devapi"
	"github.com/Wiz-2/frontend-login/internal/storage"
)

func main() {
	logger := log.New(os.Stdout, "[devapi] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting development API...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatalf("Failed to load .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateDevAPI(); err != nil {
		logger.Fatalf("Invalid devapi configuration: %v", err)
	}

	logger.Printf("Initializing database at: %s", cfg.DevAPI.DBPath)
	db, err := storage.InitDB(cfg.DevAPI.DBPath)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if count, err := storage.CountUsers(db); err == nil {
		logger.Printf("Database ready with %d users", count)
	}

	h := devapi.NewHandlers(devapi.NewService(db, cfg.DevAPI.BcryptCost), logger)

	srv := &http.Server{
		Addr:         cfg.GetDevAPIAddr(),
		Handler:      h.Router(cfg.Server.MaxRequestBytes),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Printf("Server starting on http://%s", cfg.GetDevAPIAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited successfully")
}
