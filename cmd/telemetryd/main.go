/*
Package main
File: main.go
Description:
    The entry point of the telemetry daemon.

    Responsibility:
    1. Orchestration: loads configuration and starts the Core (journal
       tailer, sidecar watcher, event bus, state projector, broadcast
       fabric).
    2. Routing: maps HTTP/WebSocket endpoints to the Core's sync API and
       the broadcast fabric.
    3. Lifecycle: handles OS signals for graceful shutdown and a narrow
       SIGHUP hot-reload of the log level only.

    Architecture:
    Main -> Imports internal/core   (orchestration)
    Main -> Imports internal/wsocket (transport)
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/everforgeworks/frontier-core/internal/config"
	"github.com/everforgeworks/frontier-core/internal/core"
	"github.com/everforgeworks/frontier-core/internal/telemetrylog"
	"github.com/everforgeworks/frontier-core/internal/wsocket"
)

func main() {
	configPath := flag.String("config", "telemetry.yaml", "path to the telemetry config file")
	addr := flag.String("addr", ":8088", "HTTP listen address")
	verbose := flag.Bool("verbose", false, "enable debug-level logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	// Component loggers are built once at debug level and the global level
	// gates their output, so a later SIGHUP toggle reaches loggers that
	// components already hold.
	telemetrylog.Configure(zerolog.DebugLevel, os.Stderr)
	zerolog.SetGlobalLevel(level)
	log := telemetrylog.Component("telemetryd")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}

	c := core.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("core failed to start")
	}
	log.Info().Str("journal_dir", cfg.JournalDir).Msg("telemetry core started")

	// SIGHUP only toggles the log level between info and debug; it never
	// touches the journal directory or sidecar file names, since changing
	// those mid-session would desync the tailer's cursor from a freshly
	// loaded config.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		debug := *verbose
		for range sigChan {
			debug = !debug
			lvl := zerolog.InfoLevel
			if debug {
				lvl = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(lvl)
			log.Info().Bool("debug", debug).Msg("log level toggled via SIGHUP")
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz(c))
	mux.HandleFunc("/api/state", handleGetState(c))
	mux.HandleFunc("/api/commander", handleGetCommander(c))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wsocket.ServeWs(c.Fabric(), w, r)
	})

	srv := &http.Server{Addr: *addr, Handler: corsMiddleware(mux)}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info().Msg("shutdown signal received")
		cancel()
		c.Stop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", *addr).Msg("telemetryd listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func handleHealthz(c *core.Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"initialized":     c.IsInitialized(),
			"eventsProcessed": c.EventsProcessed(),
		})
	}
}

func handleGetState(c *core.Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.GetState())
	}
}

func handleGetCommander(c *core.Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Commander())
	}
}

// corsMiddleware allows a local companion UI to talk to this daemon even
// when served from a different origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
