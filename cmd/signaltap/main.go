// signaltap connects to the backend socket and streams received frames to
// the console. Useful for checking what the backend actually emits.
//
// Usage: go run ./cmd/signaltap --config configs/signaldash.local.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"signaldash/internal/bus"
	"signaldash/internal/config"
	"signaldash/internal/connection"
)

func main() {
	configPath := flag.String("config", "configs/signaldash.local.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "print full frame JSON")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	events := bus.New(logger)

	// Count frames per kind as they arrive. Handlers run on the connection
	// read goroutine while main reads the totals at shutdown.
	var countsMu sync.Mutex
	counts := make(map[bus.Kind]int)
	events.Subscribe(bus.KindMessage, func(ev bus.Event) {
		var frame struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(ev.Data, &frame); err != nil {
			fmt.Printf("%s  unparseable frame: %s\n", ev.ReceivedAt.Format("15:04:05.000"), ev.Data)
			return
		}

		countsMu.Lock()
		counts[bus.Kind(frame.Type)]++
		n := counts[bus.Kind(frame.Type)]
		countsMu.Unlock()

		if *verbose {
			fmt.Printf("%s  %-14s %s\n", ev.ReceivedAt.Format("15:04:05.000"), frame.Type, ev.Data)
		} else {
			fmt.Printf("%s  %-14s (%d so far)\n", ev.ReceivedAt.Format("15:04:05.000"), frame.Type, n)
		}
	})

	events.Subscribe(bus.KindConnection, func(ev bus.Event) {
		var status bus.ConnectionStatus
		if err := json.Unmarshal(ev.Data, &status); err != nil {
			return
		}
		fmt.Printf("%s  connection: %s\n", ev.ReceivedAt.Format("15:04:05.000"), status.Status)
	})

	connCfg := connection.DefaultManagerConfig()
	connCfg.URL = cfg.Connection.URL
	if cfg.Connection.ReconnectDelay > 0 {
		connCfg.ReconnectDelay = cfg.Connection.ReconnectDelay
	}

	manager := connection.NewManager(connCfg, events, logger)
	manager.Connect()

	logger.Info("tapping stream", "url", cfg.Connection.URL)

	<-ctx.Done()
	manager.Disconnect()

	countsMu.Lock()
	defer countsMu.Unlock()
	fmt.Println("\nframe counts:")
	for kind, n := range counts {
		fmt.Printf("  %-14s %d\n", kind, n)
	}
}
