package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/veilcraft/mobcore/internal/ai"
	"github.com/veilcraft/mobcore/internal/config"
	"github.com/veilcraft/mobcore/internal/sim"
)

const ConfigPath = "config/mobsim.yaml"

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

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("MOBCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := parseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	ai.EnableDebugLogging(level == slog.LevelDebug)

	slog.Info("mobcore simulation starting",
		"config", cfgPath,
		"frame", cfg.Scheduler.FrameTime,
		"jps", cfg.UseJPS)

	world, err := sim.New(cfg)
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}
	slog.Info("world populated", "summary", world.Summary())

	if err := world.Run(ctx); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
