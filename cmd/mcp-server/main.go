package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gilby125/hotel-availability/config"
	"github.com/gilby125/hotel-availability/engine"
	"github.com/gilby125/hotel-availability/pkg/buildinfo"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol.
	log := logger.New(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
		Output: os.Stderr,
	})

	services, err := engine.Build(context.Background(), cfg, log)
	if err != nil {
		log.Fatal(err, "Error initializing hotel engine")
	}
	defer services.Close()

	s := newServer(services.Engine, buildinfo.Version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
