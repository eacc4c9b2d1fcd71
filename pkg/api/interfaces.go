// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"
)

// ServerStarter runs an API server until its context is cancelled
type ServerStarter interface {
	StartServer(ctx context.Context, history HistoryStore, config ServerConfig, logger *slog.Logger) error
}

// ServerFactory creates server starters
type ServerFactory interface {
	CreateServerStarter() ServerStarter
}
