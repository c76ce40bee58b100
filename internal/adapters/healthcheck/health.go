package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/plaimi/q/internal/adapters/logging"
	"github.com/plaimi/q/internal/ports"
)

type HealthServer struct {
	port     int
	provider ports.StatsProvider
	metrics  http.Handler
	logger   *logging.Logger

	mu     sync.Mutex
	server *http.Server
}

// NewHealthServer serves /health from provider and, when metrics is not nil,
// /metrics from metrics.
func NewHealthServer(port int, provider ports.StatsProvider, metrics http.Handler, logger *logging.Logger) *HealthServer {
	return &HealthServer{
		port:     port,
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Start binds the port and serves in the background until Stop. Bind errors
// are returned.
func (s *HealthServer) Start(ctx context.Context) error {
	if s.port <= 0 {
		return nil // Disabled
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("health server listen on port %d: %w", s.port, err)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.Infof(ctx, "Health server started on port %d", s.port)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf(ctx, "Health server error: %v", err)
		}
	}()

	return nil
}

func (s *HealthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := s.provider.GetStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Errorf(r.Context(), "JSON encoding error in /health: %v", err)
	}
}

// Stop shuts the server down. It is a no-op when the server is not running.
func (s *HealthServer) Stop() error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
