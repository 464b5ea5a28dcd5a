package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/strain-dev/strain/internal/assist"
	"github.com/strain-dev/strain/internal/config"
	"github.com/strain-dev/strain/internal/frontend"
	"github.com/strain-dev/strain/internal/mock"
	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/ws"
)

func main() {
	mockMode := flag.Bool("mock", false, "Feed the tracker scripted demo data")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	trk := tracker.New(tracker.SystemClock(), cfg.Tracker.IdleTimeout)
	broadcaster := ws.NewBroadcaster(trk, cfg.UI.BroadcastThrottle, cfg.UI.SnapshotInterval)
	notifier := assist.NewNotifier(cfg)

	// The tracker holds a single level-change slot; the daemon fans it out
	// to the WebSocket clients and the assistant trigger.
	trk.SetLevelChangeFunc(func(newLevel, oldLevel tracker.Level) {
		broadcaster.BroadcastLevelChange(newLevel, oldLevel)
		notifier.LevelChanged(newLevel, oldLevel)
	})
	trk.SetSessionClosedFunc(broadcaster.BroadcastSessionClosed)

	server := ws.NewServer(cfg, trk, broadcaster, frontend.Handler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *mockMode {
		log.Println("Starting in mock mode")
		gen := mock.NewGenerator(trk, broadcaster)
		gen.Start(ctx)
	}

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
