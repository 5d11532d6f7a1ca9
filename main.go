package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/status-im/market-game/config"
	"github.com/status-im/market-game/core"
	"github.com/status-im/market-game/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatal("Error initializing logger:", err)
	}
	defer logger.Sync()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := core.Setup(ctx, cfg)
	if err != nil {
		logger.Get().Fatalf("Failed to set up services: %v", err)
	}
	app.WithServer(ctx)

	if err := app.Registry.StartAll(ctx); err != nil {
		logger.Get().Fatalf("Failed to start services: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Get().Infof("Received shutdown signal, stopping services...")
	cancel()
	app.Registry.StopAll()
}
