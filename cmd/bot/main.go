// Package main is the entry point for the Telegram forwarder bot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jitendra-ky/klb-assignment/internal/bot"
	"github.com/jitendra-ky/klb-assignment/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadBot()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	b, err := bot.New(cfg.Token, bot.NewClient(cfg.APIURL), logger)
	if err != nil {
		logger.Error("failed to create bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
	}()

	if err := b.Start(ctx); err != nil {
		logger.Error("bot error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
