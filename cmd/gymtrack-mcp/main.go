package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymtrack/internal/api"
	"github.com/claude/gymtrack/internal/config"
	"github.com/claude/gymtrack/internal/history"
	gymmcp "github.com/claude/gymtrack/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymtrack-mcp", Version)
		return
	}

	// Stdout carries the MCP protocol; all logging goes to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	store, err := history.Open(cfg.Data.Dir, log)
	if err != nil {
		log.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), store, log)

	srv := gymmcp.New(store, client, Version, log)
	if err := server.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
