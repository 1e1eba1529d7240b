// Package config loads configuration from environment variables. A local
// .env file is honored when present so development doesn't require
// exporting variables by hand; a missing .env is not an error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Server holds configuration for the API server binary.
type Server struct {
	Port      int
	DBPath    string
	JWTSecret string
	AMQPURL   string // empty disables the queue; welcome emails are dropped
	QueueName string
}

// Worker holds configuration for the welcome-email worker binary.
type Worker struct {
	AMQPURL     string
	QueueName   string
	Concurrency int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
}

// Bot holds configuration for the Telegram forwarder binary.
type Bot struct {
	Token  string
	APIURL string
}

const defaultQueueName = "user_tasks"

// LoadServer resolves the API server configuration.
// JWT_SECRET is required; everything else has a default.
func LoadServer() (Server, error) {
	loadDotEnv()

	port, err := intEnv("PORT", 8080)
	if err != nil {
		return Server{}, err
	}

	cfg := Server{
		Port:      port,
		DBPath:    envOr("DB_PATH", "data/klb.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		AMQPURL:   os.Getenv("AMQP_URL"),
		QueueName: envOr("QUEUE_NAME", defaultQueueName),
	}

	if cfg.JWTSecret == "" {
		return Server{}, fmt.Errorf("config: JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// LoadWorker resolves the worker configuration.
// AMQP_URL and SMTP_HOST are required.
func LoadWorker() (Worker, error) {
	loadDotEnv()

	concurrency, err := intEnv("WORKER_CONCURRENCY", 4)
	if err != nil {
		return Worker{}, err
	}
	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return Worker{}, err
	}

	cfg := Worker{
		AMQPURL:      os.Getenv("AMQP_URL"),
		QueueName:    envOr("QUEUE_NAME", defaultQueueName),
		Concurrency:  concurrency,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    envOr("EMAIL_FROM", "no-reply@example.com"),
	}

	if cfg.AMQPURL == "" {
		return Worker{}, fmt.Errorf("config: AMQP_URL environment variable is required")
	}
	if cfg.SMTPHost == "" {
		return Worker{}, fmt.Errorf("config: SMTP_HOST environment variable is required")
	}

	return cfg, nil
}

// LoadBot resolves the bot forwarder configuration.
// TELEGRAM_BOT_TOKEN is required.
func LoadBot() (Bot, error) {
	loadDotEnv()

	cfg := Bot{
		Token:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIURL: envOr("API_URL", "http://localhost:8080/api/telegram/register"),
	}

	if cfg.Token == "" {
		return Bot{}, fmt.Errorf("config: TELEGRAM_BOT_TOKEN environment variable is required")
	}

	return cfg, nil
}

func loadDotEnv() {
	_ = godotenv.Load()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}
