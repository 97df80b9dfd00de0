// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/logger"
)

type server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration

	quit     chan struct{}
	quitOnce sync.Once

	logger *logger.Logger
}

// NewServer builds the peer-facing HTTP server around the given router.
func NewServer(router http.Handler, cfg config.Server, logger *logger.Logger) (Server, error) {
	if cfg.HTTPAddress == "" {
		return nil, errNoListenAddress
	}

	logger.Info().Str("address", cfg.HTTPAddress).Msg("creating new server...")

	return &server{
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddress,
			Handler: router,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		quit:            make(chan struct{}),
		logger:          logger,
	}, nil
}

// RunServer serves until a stop signal arrives or Shutdown is called, then
// drains in-flight requests within the configured timeout.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Err(err).Msg("http server stopped")
			s.Shutdown()
		}
	}()

	s.logger.Info().Str("address", s.httpServer.Addr).Msg("peer api listening")

	select {
	case <-ctx.Done():
	case <-s.quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Err(err).Msg("http server shutdown")
	}

	s.logger.Info().Msg("server shutdown gracefully")
}

// Shutdown unblocks RunServer.
func (s *server) Shutdown() {
	s.quitOnce.Do(func() { close(s.quit) })
}
