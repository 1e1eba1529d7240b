// Package main is the entry point for the welcome-email worker. It consumes
// queued jobs and delivers mail over SMTP; every job is best-effort.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jitendra-ky/klb-assignment/internal/config"
	"github.com/jitendra-ky/klb-assignment/internal/mailer"
	"github.com/jitendra-ky/klb-assignment/internal/queue"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadWorker()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer conn.Close()

	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	handler := mailer.NewJobHandler(smtp, cfg.EmailFrom, logger)

	consumer := queue.NewConsumer(conn, cfg.QueueName, cfg.Concurrency, handler, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil {
		logger.Error("consumer error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
