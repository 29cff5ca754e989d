// Package server provides the HTTP preview server for deployment diagrams.
//
// The server renders built-in deployments and posted topology documents on
// demand through a shared [pipeline.Runner], so repeated requests are served
// from the artifact cache.
//
// # Routes
//
//	GET  /healthz
//	GET  /version
//	GET  /api/v1/deployments
//	GET  /api/v1/deployments/{name}
//	GET  /api/v1/deployments/{name}/diagram.{format}
//	POST /api/v1/render?format=svg
//
// # Usage
//
//	srv, err := server.New(":8080", runner, server.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
//
// [pipeline.Runner]: github.com/matzehuels/deployview/pkg/pipeline.Runner
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/deployview/pkg/pipeline"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

const (
	defaultIdleTimeout     = 120 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Server is an HTTP server serving rendered deployment diagrams.
type Server struct {
	srv    *http.Server
	router *chi.Mux
	api    *API
	logger *log.Logger
}

// New creates a server bound to addr. Options run after the default
// middlewares and before the utility and /api/v1 routes are mounted.
func New(addr string, runner *pipeline.Runner, opts ...Option) (*Server, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil)
	}

	mux := chi.NewRouter()
	s := &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			IdleTimeout:  defaultIdleTimeout,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		router: mux,
		api:    &API{runner: runner},
		logger: runner.Logger,
	}

	all := []Option{WithMiddlewares(Middlewares())}
	all = append(all, opts...)
	all = append(all,
		WithRoutes(UtilityRoutes()...),
		WithAPIVersionRoutes("/api/v1", s.api.Routes()...),
	)
	for _, opt := range all {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid server option: %w", err)
		}
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Run listens on the configured address and serves until ctx is canceled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down preview server")
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
