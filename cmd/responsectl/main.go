package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tm "github.com/buger/goterm"

	"museum-artifact-backend/config"
	"museum-artifact-backend/internal/controller"
)

func main() {
	drawBanner()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	if cfg.Controller.APIBaseURL == "" {
		log.Fatalf("controller.api_base_url must be configured")
	}
	if cfg.Controller.APIKey == "" {
		log.Fatalf("controller.api_key (or server.api_key) must be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The controller always runs when launched directly.
	cfg.Controller.Enabled = true

	svc := controller.NewService(&cfg.Controller, os.Stdout)
	svc.Run(ctx)
}

func drawBanner() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()

	fmt.Println(tm.Color("Museum Response Controller", tm.CYAN))
	fmt.Println("watching for unprocessed interactions...")
	fmt.Println()
}
