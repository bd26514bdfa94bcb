package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vorpalengineering/cryptocoffee-go/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "server/config.yaml", "Path to config file")
	flag.Parse()

	// Load .env if present; real environment takes precedence
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load config
	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create context that listens for shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
