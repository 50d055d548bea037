// ABOUTME: HTTP server wiring for the POS: two listeners over one store
// ABOUTME: Loopback carries the full API, the LAN listener a read-only facade

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/elsabor/comanda/internal/auth"
	"github.com/elsabor/comanda/internal/config"
	"github.com/elsabor/comanda/internal/store"
)

// Server owns the HTTP listeners in front of a single store. The local
// listener binds loopback and carries every operation; the LAN listener is
// optional, read-only, and may require bearer tokens.
type Server struct {
	store  *store.Store
	logger *slog.Logger

	local  *http.Server
	remote *http.Server
}

// New builds a server from the loaded config. The LAN listener is only
// created when enabled.
func New(st *store.Store, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default().With("component", "server")
	}

	s := &Server{store: st, logger: logger}

	s.local = &http.Server{
		Addr:              cfg.LocalAddr,
		Handler:           s.chain(LocalHandler(st, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.LANEnabled {
		var verifier auth.TokenVerifier
		if cfg.AuthSecret != "" {
			verifier = auth.NewJWTVerifier([]byte(cfg.AuthSecret))
		}
		s.remote = &http.Server{
			Addr:              cfg.LANAddr,
			Handler:           s.chain(RemoteHandler(st, logger, verifier)),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

// chain wraps a handler with the shared middleware stack, innermost first.
func (s *Server) chain(h http.Handler) http.Handler {
	h = recoverMiddleware(s.logger)(h)
	h = accessLogMiddleware(s.logger)(h)
	h = requestIDMiddleware(h)
	return h
}

// Run starts the listeners and blocks until ctx is cancelled or a listener
// fails, then shuts everything down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 2)

	go func() {
		s.logger.Info("local API listening", "addr", s.local.Addr)
		if err := s.local.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	if s.remote != nil {
		go func() {
			s.logger.Info("LAN read API listening", "addr", s.remote.Addr)
			if err := s.remote.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP listeners")
	err := s.local.Shutdown(shutdownCtx)
	if s.remote != nil {
		if rerr := s.remote.Shutdown(shutdownCtx); err == nil {
			err = rerr
		}
	}
	return err
}
