package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/clubhub/internal/app/repositories"
	"github.com/yigit/clubhub/internal/bootstrap"
	"github.com/yigit/clubhub/internal/db"
	"github.com/yigit/clubhub/internal/pkg/observability"
)

const (
	sessionPurgeInterval = time.Hour
	shutdownTimeout      = 10 * time.Second
)

// Server owns the HTTP listener and everything that must be released when it stops
type Server struct {
	database *db.PostgresDB
	sessions *repositories.SessionRepository
	logger   zerolog.Logger
	flush    func()
	http     *http.Server
}

// NewServer wires configuration, storage, services and routes
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	s := &Server{logger: lgr}
	s.flush = bootstrap.SetupObservability(cfg, lgr)

	if s.database, err = bootstrap.SetupDatabase(cfg, lgr); err != nil {
		s.release()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, s.database, lgr)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	s.sessions = deps.Repos.SessionRepository

	handler, err := bootstrap.BuildHandler(cfg, bootstrap.SetupRouter(cfg, deps, lgr), lgr)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to setup handler: %w", err)
	}

	s.http = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads of up to the configured size must fit in the read window
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}
	return s, nil
}

// Run serves until the listener fails or SIGINT/SIGTERM arrives, then shuts down
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.purgeExpiredSessions(ctx)

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.release()
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	return s.Shutdown(context.Background())
}

// purgeExpiredSessions deletes expired session rows until ctx is done
func (s *Server) purgeExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.sessions.DeleteExpired(ctx, now)
			if err != nil {
				s.logger.Error().Err(err).Msg("Failed to purge expired sessions")
				observability.CaptureErr(err)
				continue
			}
			if n > 0 {
				s.logger.Info().Int64("count", n).Msg("Expired sessions purged")
			}
		}
	}
}

// Shutdown drains in-flight requests, then closes the pool and flushes Sentry
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	s.release()

	s.logger.Info().Msg("Server stopped")
	return err
}

func (s *Server) release() {
	if s.database != nil {
		s.database.Close()
		s.logger.Info().Msg("Database connection pool closed")
	}
	if s.flush != nil {
		s.flush()
	}
}
