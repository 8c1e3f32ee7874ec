package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/volunteerhub/realtime/internal/api"
	"github.com/volunteerhub/realtime/internal/config"
	"github.com/volunteerhub/realtime/internal/connection"
	"github.com/volunteerhub/realtime/internal/dispatch"
	"github.com/volunteerhub/realtime/internal/notify"
	"github.com/volunteerhub/realtime/internal/state"
	"github.com/volunteerhub/realtime/internal/version"
)

func main() {
	// Optional .env for local development; env vars are expanded in config.
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/client.local.yaml", "path to config file")
	healthAddr := flag.String("health", ":8080", "health endpoint listen address")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"rest_url", cfg.Server.RestURL,
		"ws_url", cfg.Server.WSURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create API client
	apiClient := api.NewClient(
		cfg.Server.RestURL,
		cfg.Server.SessionToken,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRetries(cfg.Server.MaxRetries, time.Second),
	)

	// Session state and notification surface
	store := state.New(state.Config{FeedCap: cfg.Feed.Cap}, logger)
	notes := notify.NewSurface(notify.Config{
		Cap:         cfg.Notifications.Cap,
		ErrorWindow: cfg.Reconnect.ErrorWindow,
	}, logger)

	// Connection manager
	manager := connection.NewManager(connection.ManagerConfig{
		WSURL:            cfg.Server.WSURL,
		HandshakeTimeout: cfg.Socket.HandshakeTimeout,
		PingInterval:     cfg.Socket.PingInterval,
		PongTimeout:      cfg.Socket.PongTimeout,
		WriteTimeout:     cfg.Socket.WriteTimeout,
		ReconnectBase:    cfg.Reconnect.BaseDelay,
		ReconnectMax:     cfg.Reconnect.MaxDelay,
		MaxAttempts:      cfg.Reconnect.MaxAttempts,
		ErrorWindow:      cfg.Reconnect.ErrorWindow,

		MessageBufferSize: cfg.Socket.BufferSize,
	}, logger, connection.WithFailureHandler(dispatch.FailureHandler(notes)))

	// Dispatcher wires frames into the store and the surface
	disp := dispatch.New(manager.Messages(), store, notes, logger)
	if err := disp.Start(ctx); err != nil {
		logger.Error("failed to start dispatcher", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		disp.Stop(shutdownCtx)
	}()

	// Warm the activity feed before the live stream starts prepending.
	if page, err := apiClient.GetActivityPage(ctx, api.PageOptions{Limit: cfg.Feed.PageSize}); err != nil {
		logger.Warn("failed to load initial activity page", "error", err)
	} else {
		store.ReplaceActivityPage(page.Entries, page.Total)
		logger.Info("activity feed loaded", "entries", len(page.Entries), "total", page.Total)
	}

	// Connect and start syncing
	manager.Connect(ctx, cfg.Server.SessionToken)
	defer manager.Disconnect(false)

	// Health server
	healthServer := &http.Server{
		Addr:    *healthAddr,
		Handler: createHealthHandler(manager, disp, notes, logger),
	}
	go func() {
		logger.Info("starting health server", "addr", *healthAddr)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("syncd running")

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("syncd stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(manager *connection.Manager, disp dispatch.Dispatcher, notes *notify.Surface, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		snap := manager.Snapshot()
		stats := disp.Stats()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		health.Components["connection"] = map[string]any{
			"status":      snap.Status.String(),
			"rooms":       snap.Rooms,
			"retry_count": snap.RetryCount,
		}
		switch snap.Status {
		case connection.Failed:
			health.Status = "unhealthy"
		case connection.Reconnecting, connection.Connecting:
			health.Status = "degraded"
		}

		health.Components["dispatcher"] = map[string]any{
			"frames_received": stats.FramesReceived,
			"events_applied":  stats.EventsApplied,
			"frames_dropped":  stats.FramesDropped,
		}
		health.Components["notifications"] = map[string]any{
			"unread": notes.UnreadCount(),
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
