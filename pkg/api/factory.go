// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct {
	registry *prometheus.Registry
}

// NewServerFactory creates a new server factory. Metrics are registered with
// registry, or with a fresh registry per server when registry is nil.
func NewServerFactory(registry *prometheus.Registry) ServerFactory {
	return &DefaultServerFactory{registry: registry}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{registry: f.registry}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct {
	registry *prometheus.Registry
}

// StartServer builds a Server with its metrics and runs it until ctx is done
func (s *DefaultServerStarter) StartServer(ctx context.Context, history HistoryStore, config ServerConfig, logger *slog.Logger) error {
	registry := s.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	server := NewServer(history, config, NewMetrics(registry), logger)
	return server.Run(ctx, registry)
}
