// main.go
// Application entry point: loads configuration, initializes the
// logger, and runs the relay server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erilali/chat-relay/internal/api"
	"github.com/erilali/chat-relay/internal/config"
	"github.com/erilali/chat-relay/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.Log.Logger())
	serverLogger := logger.NewLogger("server")
	serverLogger.WithFields(map[string]interface{}{
		"addr":        cfg.Server.Addr,
		"level":       cfg.Log.Level,
		"log_to_file": cfg.Log.ToFile,
		"log_to_json": cfg.Log.ToJSON,
	}).Info("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		serverLogger.Infof("Received signal %s, shutting down", sig)
		cancel()
	}()

	srv := api.New(cfg, serverLogger)
	if err := srv.Run(ctx); err != nil {
		serverLogger.Fatalf("Server error: %v", err)
	}
}
