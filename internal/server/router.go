// Package server serves the static emblem over HTTP for clients that
// cannot run the animated scene: SVG for browsers, PNG for everything else.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"shieldmark/internal/config"
	"shieldmark/internal/scene"
)

// Server renders the fallback mark on request.
type Server struct {
	opts  config.Options
	theme scene.ThemeSource
	log   *zap.Logger
}

// New creates a server. theme may be nil.
func New(opts config.Options, theme scene.ThemeSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.L()
	}
	return &Server{opts: opts, theme: theme, log: logger.Named("server")}
}

// NewRouter wires the routes.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/emblem.svg", s.SVGHandler).Methods(http.MethodGet)
	r.HandleFunc("/emblem.png", s.PNGHandler).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Server.Addr,
		Handler:      s.NewRouter(),
		ReadTimeout:  s.opts.Server.ReadTimeout,
		WriteTimeout: s.opts.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.Server.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.log.Info("stopped")
	return nil
}
