package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"signaldash/internal/api"
	"signaldash/internal/bus"
	"signaldash/internal/config"
	"signaldash/internal/connection"
	"signaldash/internal/notify"
	"signaldash/internal/poller"
	"signaldash/internal/telegram"
	"signaldash/internal/version"
	"signaldash/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "configs/signaldash.local.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting signaldash",
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
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"ws_url", cfg.Connection.URL,
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

	// Event bus ties all components together.
	events := bus.New(logger)

	// Open the watchlist store.
	store, err := watchlist.Open(cfg.Watchlist.DBPath)
	if err != nil {
		logger.Error("failed to open watchlist", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	watched, err := store.List()
	if err != nil {
		logger.Error("failed to read watchlist", "error", err)
		os.Exit(1)
	}
	logger.Info("watchlist loaded", "symbols", len(watched))

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	// Notification center, with Telegram delivery when configured.
	centerOpts := []notify.Option{
		notify.WithLogger(logger),
		notify.WithToaster(notify.LogToaster{Logger: logger}),
	}
	if cfg.Notifications.Telegram.BotToken != "" {
		tg, err := telegram.NewClient(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID,
			cfg.Notifications.Telegram.MaxRetries,
			cfg.Notifications.Telegram.RetryDelay,
		)
		if err != nil {
			logger.Error("failed to create Telegram client", "error", err)
			os.Exit(1)
		}
		tg.ListenForCommands(ctx)
		centerOpts = append(centerOpts, notify.WithDesktop(tg))
		logger.Info("telegram notifications enabled")
	}

	center := notify.NewCenter(events, centerOpts...)
	if err := center.Start(ctx); err != nil {
		logger.Error("failed to start notification center", "error", err)
		os.Exit(1)
	}
	defer center.Stop()

	// Socket connection to the backend.
	connCfg := connection.DefaultManagerConfig()
	connCfg.URL = cfg.Connection.URL
	if cfg.Connection.ReconnectDelay > 0 {
		connCfg.ReconnectDelay = cfg.Connection.ReconnectDelay
	}
	if cfg.Connection.PingInterval > 0 {
		connCfg.PingInterval = cfg.Connection.PingInterval
	}
	if cfg.Connection.PingTimeout > 0 {
		connCfg.PingTimeout = cfg.Connection.PingTimeout
	}
	if cfg.Connection.WriteTimeout > 0 {
		connCfg.WriteTimeout = cfg.Connection.WriteTimeout
	}
	if cfg.Connection.BufferSize > 0 {
		connCfg.BufferSize = cfg.Connection.BufferSize
	}

	manager := connection.NewManager(connCfg, events, logger)
	manager.Connect()
	defer manager.Disconnect()

	// Market status poller.
	statusPoller := poller.New(
		poller.Config{Interval: cfg.Poller.Interval},
		apiClient,
		events,
		logger,
	)
	if err := statusPoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		statusPoller.Stop(shutdownCtx)
	}()

	// Health server.
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(cfg.Health.Path, events, manager, center, store),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("signaldash running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d%s", cfg.Health.Port, cfg.Health.Path),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("signaldash stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(path string, events *bus.Bus, manager *connection.Manager, center *notify.Center, store *watchlist.Store) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		state := manager.State()
		health.Components["connection"] = state.String()
		if state != connection.StateConnected {
			health.Status = "degraded"
		}

		if unread, err := center.UnreadCount(); err == nil {
			health.Components["unread_notifications"] = unread
		}

		if watched, err := store.List(); err == nil {
			health.Components["watchlist"] = map[string]any{"symbols": len(watched)}
		} else {
			health.Status = "unhealthy"
			health.Components["watchlist"] = map[string]string{"error": err.Error()}
		}

		stats := events.Stats()
		health.Components["bus"] = map[string]any{
			"dispatched":     stats.Dispatched,
			"handler_panics": stats.HandlerPanics,
			"subscriptions":  stats.Subscriptions,
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
