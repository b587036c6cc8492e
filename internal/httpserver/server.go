// Package httpserver wraps http.Server with functional options and a
// Start/Stop pair suited to the shutdown group.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	server *http.Server
	log    *slog.Logger
}

type Option func(*Server)

func New(handler http.Handler, options ...Option) *Server {
	srv := &Server{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: slog.Default(),
	}

	for _, opt := range options {
		opt(srv)
	}

	return srv
}

func WithAddress(address string) Option {
	return func(srv *Server) {
		srv.server.Addr = address
	}
}

func WithTimeouts(read, write time.Duration) Option {
	return func(srv *Server) {
		srv.server.ReadTimeout = read
		srv.server.WriteTimeout = write
	}
}

// WithMiddleware wraps the handler; the first middleware given ends up
// innermost.
func WithMiddleware(middlewares ...func(http.Handler) http.Handler) Option {
	return func(srv *Server) {
		for _, middleware := range middlewares {
			srv.server.Handler = middleware(srv.server.Handler)
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(srv *Server) {
		srv.log = log
	}
}

// Start blocks serving requests. A clean Stop makes it return nil.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping HTTP server", "address", s.server.Addr)
	return s.server.Shutdown(ctx)
}

// Handler exposes the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
