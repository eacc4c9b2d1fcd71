package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/coincidence/pkg/logging"
)

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Bind: "127.0.0.1", Port: 8080}.Addr())
	assert.Equal(t, ":9000", ServerConfig{Port: 9000}.Addr())
	assert.Equal(t, "[::1]:80", ServerConfig{Bind: "::1", Port: 80}.Addr())
}

func TestNewServer_Defaults(t *testing.T) {
	server := NewServer(nil, ServerConfig{}, nil, nil)
	assert.Equal(t, int64(DefaultMaxBodyBytes), server.config.MaxBodyBytes)
	assert.NotNil(t, server.logger)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	server := NewServer(nil, ServerConfig{}, NewMetrics(registry), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener, registry) }()

	url := fmt.Sprintf("http://%s/api/v1/health", listener.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunInvalidAddress(t *testing.T) {
	server := NewServer(nil, ServerConfig{Bind: "127.0.0.1", Port: -1}, nil, logging.Discard())
	err := server.Run(context.Background(), nil)
	assert.Error(t, err)
}
