package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/api"
	assets "github.com/Fazalwahab12/shift-backend-sub002/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/chat"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/config"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/jobs"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/notify"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/repository/sqlite"
	"github.com/joho/godotenv"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// .env is optional; env vars win over defaults either way
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting shift server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply migrations
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, assets.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// Background queue for notification and chat message delivery
	queue := jobs.NewRepository(conn)

	var chatClient chat.Client
	if cfg.Chat.BaseURL != "" {
		chatClient = chat.NewHTTPClient(cfg.Chat.BaseURL, cfg.Chat.Timeout)
	}

	handlers := map[string]jobs.Handler{
		notify.JobTypeDispatch: notify.NewSender(cfg.Notify.WebhookURL, cfg.Notify.Timeout).Handler,
	}
	if chatClient != nil {
		repo := sqlite.New(conn, logger)
		provisioner := chat.NewProvisioner(repo, chatClient, queue, logger)
		handlers[chat.JobTypeMessage] = provisioner.MessageHandler
	}

	pool := jobs.NewWorkerPool(queue, handlers, logger, cfg.Notify.Workers)
	pool.Start(ctx)

	handler, err := api.SetupRoutes(cfg, version, buildTime, conn, queue, chatClient)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	pool.Stop()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
