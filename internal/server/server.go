// Package server wires the HTTP API together: it owns the router, the
// dependency graph, and the serve/shutdown lifecycle. main stays minimal;
// everything constructed here is injected downward.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jitendra-ky/klb-assignment/internal/auth"
	"github.com/jitendra-ky/klb-assignment/internal/handler"
	"github.com/jitendra-ky/klb-assignment/internal/middleware"
	"github.com/jitendra-ky/klb-assignment/internal/queue"
	sqliteRepo "github.com/jitendra-ky/klb-assignment/internal/repository/sqlite"
	"github.com/jitendra-ky/klb-assignment/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the resources that must be released on
// shutdown (the database connection).
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the dependency graph and registers all routes. The
// dispatcher is injected so main can choose between the RabbitMQ client and
// queue.Nop when no broker is configured.
func New(cfg Config, dispatcher queue.Dispatcher, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(dispatcher); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler returns the fully wired router. Used by Start and by tests that
// drive the API through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start callers
// don't need it; tests do.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes(dispatcher queue.Dispatcher) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db, passwords, tokens, dispatcher, s.logger)
	telegramService := service.NewTelegramService(s.db.TelegramUsers(), s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	tokenHandler := handler.NewTokenHandler(userService, s.logger)
	telegramHandler := handler.NewTelegramHandler(telegramService, s.logger)

	s.router.Get("/", handler.HandleIndex)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", userHandler.HandleRegister)
		r.Post("/token", tokenHandler.HandleObtain)
		r.Post("/token/refresh", tokenHandler.HandleRefresh)
		r.Post("/telegram/register", telegramHandler.HandleRegister)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/profile", userHandler.HandleProfile)
		})
	})

	return nil
}

// Start serves HTTP until SIGINT/SIGTERM, then shuts down gracefully and
// closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
