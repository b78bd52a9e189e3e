// Package chiserver serves the operational endpoints of a txkit service:
// Prometheus metrics, liveness and readiness backed by database health checks.
package chiserver

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

type Server struct {
	router       chi.Router
	httpServer   *http.Server
	config       Config
	logger       observability.Logger
	metrics      http.Handler
	healthChecks map[string]HealthCheckFunc

	shutdownOnce sync.Once
	shutdownErr  error
}

func New(o11y observability.Observability, opts ...Option) (*Server, error) {
	srv := &Server{
		config:       DefaultConfig(),
		logger:       o11y.Logger(),
		healthChecks: make(map[string]HealthCheckFunc),
	}
	for _, opt := range opts {
		opt(srv)
	}

	if err := srv.config.Validate(); err != nil {
		return nil, err
	}

	srv.router = chi.NewRouter()
	srv.router.Use(middleware.RequestID)
	srv.router.Use(srv.recoverMiddleware)
	srv.registerEndpoints()

	srv.httpServer = &http.Server{
		Addr:         srv.config.Address,
		Handler:      srv.router,
		ReadTimeout:  srv.config.ReadTimeout,
		WriteTimeout: srv.config.WriteTimeout,
		IdleTimeout:  srv.config.IdleTimeout,
	}
	return srv, nil
}

// Handler returns the router, for tests and for embedding under another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerEndpoints() {
	s.router.Get("/live", liveHandler)
	s.router.Get("/ready", s.readyHandler)
	s.router.Get("/health", s.healthHandler)

	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			s.logger.Error(r.Context(), "panic recovered",
				observability.String("path", r.URL.Path),
				observability.String("method", r.Method),
				observability.String("request_id", middleware.GetReqID(r.Context())),
				observability.String("panic", fmt.Sprint(recovered)),
				observability.String("stack", string(debug.Stack())),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
