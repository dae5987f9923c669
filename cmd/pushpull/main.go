package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/pushpull/internal/alert"
	"github.com/claude/pushpull/internal/config"
	"github.com/claude/pushpull/internal/history"
	ppmcp "github.com/claude/pushpull/internal/mcp"
	"github.com/claude/pushpull/internal/routine"
	"github.com/claude/pushpull/internal/server"
	"github.com/claude/pushpull/internal/session"
	"github.com/claude/pushpull/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("PushPull starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dialect := storage.Dialect(cfg.Database.Driver)
	if err := storage.RunMigrations(dialect, cfg.Database.MigrationURL()); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "driver", dialect)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dialect, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Rest-complete alerts
	alerters := []alert.Alerter{alert.NewLog(log)}
	if cfg.Alert.Bell {
		alerters = append(alerters, alert.NewBell(os.Stdout, cfg.Alert.Beeps))
	}
	if cfg.Alert.Webhook.URL != "" {
		alerters = append(alerters, alert.NewWebhook(cfg.Alert.Webhook.URL, cfg.Alert.Webhook.Timeout, cfg.Alert.Webhook.Attempts))
	}
	alerts := alert.NewMulti(log, alerters...)
	log.Info("alerts configured", "alerters", alerts.Len())

	routines := routine.NewService(db, log)
	hist := history.NewService(db, log)
	sessions := session.NewManager(db, routines, log,
		session.WithTickInterval(cfg.Timer.TickInterval),
		session.WithAlerter(alerts),
		session.WithUnit(cfg.Units),
	)
	defer sessions.Close()

	srv := server.New(sessions, routines, hist, cfg.Units, log)

	if cfg.MCP.Enabled {
		mcpSrv := ppmcp.New(hist, routines, Version, log)
		srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))
		log.Info("MCP endpoint enabled", "path", "/mcp")
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
