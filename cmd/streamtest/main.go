// streamtest connects to the realtime server and prints classified events to
// the console.
// Usage: go run ./cmd/streamtest --config configs/client.local.yaml --room community:42 --room leaderboard
//
// The session token comes from the config file, normally via the
// VHUB_SESSION_TOKEN environment variable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/volunteerhub/realtime/internal/config"
	"github.com/volunteerhub/realtime/internal/connection"
	"github.com/volunteerhub/realtime/internal/event"
)

type roomList []string

func (r *roomList) String() string { return strings.Join(*r, ",") }

func (r *roomList) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/client.example.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "print full event JSON")
	var rooms roomList
	flag.Var(&rooms, "room", "room to join (repeatable), e.g. community:42, event:7, leaderboard")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
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

	if cfg.Server.SessionToken == "" {
		logger.Error("session token required")
		logger.Info("set VHUB_SESSION_TOKEN or server.session_token in the config")
		os.Exit(1)
	}

	connCfg := connection.DefaultManagerConfig()
	connCfg.WSURL = cfg.Server.WSURL
	if cfg.Socket.BufferSize > 0 {
		connCfg.MessageBufferSize = cfg.Socket.BufferSize
	}

	mgr := connection.NewManager(connCfg, logger,
		connection.WithFailureHandler(func(msg string) {
			logger.Error("connection failure surfaced", "message", msg)
		}),
	)

	// Record memberships before connecting so the initial replay covers them.
	for _, room := range rooms {
		mgr.JoinRoom(room)
	}

	logger.Info("connecting", "ws_url", cfg.Server.WSURL, "rooms", rooms)
	mgr.Connect(ctx, cfg.Server.SessionToken)
	defer mgr.Disconnect(false)

	classifier := event.NewClassifier(logger)

	var received, classified, dropped atomic.Int64

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := mgr.Snapshot()
				logger.Info("stats",
					"status", snap.Status.String(),
					"rooms", len(snap.Rooms),
					"received", received.Load(),
					"classified", classified.Load(),
					"dropped", dropped.Load(),
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown complete")
			return
		case raw, ok := <-mgr.Messages():
			if !ok {
				logger.Info("message channel closed")
				return
			}
			received.Add(1)

			ev, ok := classifier.Classify(raw.Data, raw.ReceivedAt)
			if !ok {
				dropped.Add(1)
				continue
			}
			classified.Add(1)
			printEvent(ev, raw.Room, *verbose)
		}
	}
}

func printEvent(ev event.Inbound, room string, verbose bool) {
	if verbose {
		data, _ := json.MarshalIndent(ev, "", "  ")
		fmt.Printf("[%s] %s\n", ev.Kind(), data)
		return
	}

	if room != "" {
		fmt.Printf("[%s] room=%s %+v\n", ev.Kind(), room, ev)
	} else {
		fmt.Printf("[%s] %+v\n", ev.Kind(), ev)
	}
}
