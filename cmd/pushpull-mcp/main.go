// Command pushpull-mcp serves the PushPull MCP tools over stdio, reading
// either a local database or a remote PushPull server's REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/pushpull/internal/config"
	"github.com/claude/pushpull/internal/history"
	ppmcp "github.com/claude/pushpull/internal/mcp"
	"github.com/claude/pushpull/internal/routine"
	"github.com/claude/pushpull/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local database mode)")
	remoteURL := flag.String("url", "", "base URL of a PushPull server (remote mode)")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*configPath == "") == (*remoteURL == "") {
		fmt.Fprintf(os.Stderr, "Usage: pushpull-mcp (-config config.yaml | -url http://pushpull.tailnet)\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var ds ppmcp.DataSource
	var routines ppmcp.Routines

	if *remoteURL != "" {
		client := ppmcp.NewHTTPClient(*remoteURL)
		ds, routines = client, client
		log.Info("MCP remote mode", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), storage.Dialect(cfg.Database.Driver), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = history.NewService(db, log)
		routines = routine.NewService(db, log)
		log.Info("MCP local mode", "driver", cfg.Database.Driver)
	}

	s := ppmcp.New(ds, routines, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
