package chiserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// Start serves until ctx is done, then shuts down within the configured
// shutdown timeout. Callers usually pass a signal.NotifyContext.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "starting HTTP server",
		observability.String("address", s.config.Address),
		observability.String("service", s.config.ServiceName),
	)

	serverErr := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverErr <- err
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			s.logger.Error(ctx, "server failed", observability.Error(err))
		}
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "context cancelled, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting connections and waits for in-flight requests.
// Later calls return the result of the first one.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", observability.Error(err))
			s.shutdownErr = err
			return
		}
		s.logger.Info(ctx, "graceful shutdown completed")
	})
	return s.shutdownErr
}
