// Package server wires the request handler into a net/http listener and
// owns process-level lifecycle: startup validation and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"example.com/fileserver/internal/config"
	"example.com/fileserver/internal/fileserver"
	"example.com/fileserver/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Server runs the HTTP listener for a single serve directory.
type Server struct {
	cfg  *config.Config
	log  *logger.Logger
	http *http.Server
}

// New validates the served root and builds the listener. A missing or
// non-directory root is fatal: the server must never start listening in
// that state.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	fi, err := os.Stat(cfg.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("serve directory does not exist: %s", cfg.Root)
		}
		return nil, fmt.Errorf("cannot stat serve directory %s: %w", cfg.Root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("serve path is not a directory: %s", cfg.Root)
	}

	return &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:    cfg.Addr(),
			Handler: fileserver.New(cfg, log),
		},
	}, nil
}

// ListenAndServe blocks until the listener fails or ctx is canceled. On
// cancellation, in-flight requests are drained for up to shutdownTimeout
// before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.log.Info("Server started", logger.LogFields{
		"addr":      s.cfg.Addr(),
		"base_path": s.cfg.BasePath,
	})

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listener failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Received interrupt signal, shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("Server stopped successfully", nil)
	return nil
}
