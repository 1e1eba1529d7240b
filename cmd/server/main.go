// Package main is the entry point for the identity API server. It reads
// configuration, builds the logger and the job dispatcher, and hands
// everything to internal/server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jitendra-ky/klb-assignment/internal/config"
	"github.com/jitendra-ky/klb-assignment/internal/queue"
	"github.com/jitendra-ky/klb-assignment/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadServer()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The dispatcher is optional: without a broker the server still runs and
	// registrations succeed, welcome emails are simply never attempted.
	var dispatcher queue.Dispatcher = queue.Nop{}
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, welcome emails disabled",
				slog.String("error", err.Error()),
			)
		} else {
			defer conn.Close()
			rq, err := queue.NewRabbitMQ(conn, cfg.QueueName, logger)
			if err != nil {
				logger.Warn("RabbitMQ setup failed, welcome emails disabled",
					slog.String("error", err.Error()),
				)
			} else {
				defer rq.Close()
				dispatcher = rq
			}
		}
	} else {
		logger.Warn("AMQP_URL not set, welcome emails disabled")
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		DBPath:    cfg.DBPath,
		JWTSecret: cfg.JWTSecret,
	}, dispatcher, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
