package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Route defines the server response based on the method and pattern of the request.
type Route struct {
	method  string
	pattern string
	handler http.Handler
}

// UtilityRoutes defines the routes outside the versioned API.
func UtilityRoutes() []Route {
	return []Route{
		{http.MethodGet, "/healthz", http.HandlerFunc(healthz)},
		{http.MethodGet, "/version", http.HandlerFunc(version)},
	}
}

// Middlewares defines the default intermediary handlers.
func Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Recoverer,
		requestHooks,
	}
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger used for server lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithAPIVersionRoutes mounts routes under the given API version prefix.
func WithAPIVersionRoutes(apiVersion string, routes ...Route) Option {
	return func(s *Server) error {
		if s.router == nil {
			return fmt.Errorf("default server is missing a router")
		}
		s.router.Route(apiVersion, func(r chi.Router) {
			for _, route := range routes {
				r.Method(route.method, route.pattern, route.handler)
			}
		})
		return nil
	}
}

// WithRoutes adds routes to the root router.
func WithRoutes(routes ...Route) Option {
	return func(s *Server) error {
		if s.router == nil {
			return fmt.Errorf("default server is missing a router")
		}
		for _, route := range routes {
			s.router.Method(route.method, route.pattern, route.handler)
		}
		return nil
	}
}

// WithMiddlewares installs middlewares on the root router.
// chi requires middlewares to be registered before any route.
func WithMiddlewares(middlewares []func(http.Handler) http.Handler) Option {
	return func(s *Server) error {
		if s.router == nil {
			return fmt.Errorf("default server is missing a router")
		}
		s.router.Use(middlewares...)
		return nil
	}
}
