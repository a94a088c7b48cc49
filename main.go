package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sheikhrachel/go-gol-api/utils"
)

func main() {
	configPath := flag.String("config", "config.json", "optional JSON config file")
	flag.Parse()

	logger := log.New(os.Stderr, "go-gol ", log.LstdFlags)

	config, err := utils.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Fatalf("server: %v", err)
	}
	logger.Printf("shut down cleanly")
}
