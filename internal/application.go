package application

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codr1/santase-sub001/internal/config"
	"github.com/codr1/santase-sub001/internal/usecase"
	"github.com/codr1/santase-sub001/transport/rest"
	"github.com/codr1/santase-sub001/transport/websocket"
)

// RunApp - runs the application: room registry, TTL sweeper, and the HTTP
// server carrying both the REST surface and the realtime channel.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	registry := usecase.NewRegistry(logger, usecase.RegistryOptions{
		RoomTTL:           conf.Lifetimes.RoomTTL,
		IdleTTL:           conf.Lifetimes.IdleTTL,
		RoomConnections:   conf.Limits.RoomConnections,
		GlobalConnections: conf.Limits.GlobalConnections,
		RoomsPerIP:        conf.Limits.RoomsPerIP,
		RoomsPerIPWindow:  conf.Limits.RoomsPerIPWindow,
	}, nil, nil)

	go sweepLoop(ctx, registry, conf.Lifetimes.SweepInterval)

	realtime := websocket.New(logger, registry, conf.Lifetimes.PingInterval)
	server := rest.New(logger, registry, realtime, conf)

	log.Info("starting HTTP server", "port", conf.HTTPPort)

	return server.Start(ctx, conf.HTTPPort)
}

// sweepLoop - periodic TTL enforcement; heartbeats never feed it.
func sweepLoop(ctx context.Context, registry *usecase.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.Sweep()
		}
	}
}
