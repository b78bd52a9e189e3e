package chiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/JailtonJunior94/txkit/pkg/observability"
)

// HealthCheckFunc reports a dependency as unhealthy by returning an error.
type HealthCheckFunc func(ctx context.Context) error

type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  string        `json:"status"`
	Service string        `json:"service"`
	Checks  []CheckResult `json:"checks,omitempty"`
}

// runChecks executes every check concurrently under the configured timeout.
// Results are sorted by name.
func (s *Server) runChecks(ctx context.Context) ([]CheckResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.config.CheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]CheckResult, 0, len(s.healthChecks))
		healthy = true
	)
	for name, check := range s.healthChecks {
		wg.Add(1)
		go func(name string, check HealthCheckFunc) {
			defer wg.Done()

			result := CheckResult{Name: name, Status: "healthy"}
			if err := check(ctx); err != nil {
				result.Status = "unhealthy"
				result.Error = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			if result.Error != "" {
				healthy = false
			}
			results = append(results, result)
		}(name, check)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, healthy
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	results, healthy := s.runChecks(r.Context())

	status := HealthStatus{Status: "healthy", Service: s.config.ServiceName, Checks: results}
	code := http.StatusOK
	if !healthy {
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
		for _, c := range results {
			if c.Error != "" {
				s.logger.Warn(r.Context(), "health check failed",
					observability.String("check", c.Name),
					observability.String("error", c.Error),
				)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if _, healthy := s.runChecks(r.Context()); !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Service Unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func liveHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
