package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/lurkgo/internal/config"
	"github.com/udisondev/lurkgo/internal/game"
	"github.com/udisondev/lurkgo/internal/server"
	"github.com/udisondev/lurkgo/internal/world"
)

const ConfigPath = "config/lurkserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// Configure slog
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	if len(args) != 3 {
		return fmt.Errorf("usage: lurkserver <address> <port> <map_number>")
	}
	address := args[0]
	port, err := strconv.Atoi(args[1])
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", args[1])
	}
	mapNum, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid map number %q", args[2])
	}

	slog.Info("lurkgo server starting")

	// Load config
	cfgPath := ConfigPath
	if p := os.Getenv("LURK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Load world map
	mapFile := cfg.MapFile(mapNum)
	w, err := world.LoadMap(mapFile)
	if err != nil {
		return fmt.Errorf("loading map: %w", err)
	}
	slog.Info("map loaded", "file", mapFile, "rooms", len(w.Rooms()))

	desc, err := cfg.GameDescription()
	if err != nil {
		return fmt.Errorf("loading game description: %w", err)
	}

	loop := game.NewLoop(w,
		game.WithDescription(desc),
		game.WithQueueSize(cfg.EventQueueSize),
	)
	srv := server.New(cfg, loop)

	// Run the game loop and the listener in parallel
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting game loop")
		if err := loop.Run(gctx); err != nil {
			return fmt.Errorf("game loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		addr := net.JoinHostPort(address, args[1])
		slog.Info("starting server", "addr", addr)
		if err := srv.Run(gctx, addr); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
