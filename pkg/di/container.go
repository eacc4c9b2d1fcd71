// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/coincidence/pkg/api"
	"github.com/ssargent/coincidence/pkg/history"
)

// HistoryStore is an analysis history that must be closed after use
type HistoryStore interface {
	api.HistoryStore
	Close() error
}

// HistoryOpener opens the history stored in dir
type HistoryOpener func(dir string) (HistoryStore, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	historyOpener HistoryOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(nil),
		historyOpener: openPebbleHistory,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// OpenHistory opens the history in dir with the configured opener
func (c *Container) OpenHistory(dir string) (HistoryStore, error) {
	return c.historyOpener(dir)
}

// SetHistoryOpener allows overriding how history stores are opened (for testing)
func (c *Container) SetHistoryOpener(opener HistoryOpener) {
	c.historyOpener = opener
}

func openPebbleHistory(dir string) (HistoryStore, error) {
	store, err := history.Open(dir)
	if err != nil {
		return nil, err
	}
	return store, nil
}
