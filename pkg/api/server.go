// Package api exposes the analyzer over HTTP.
//
// Routes:
//
//	GET    /api/v1/health
//	POST   /api/v1/analyze          body: raw text; query: record, source
//	GET    /api/v1/analyses         query: limit, language
//	GET    /api/v1/analyses/summary query: language
//	GET    /api/v1/analyses/{id}
//	DELETE /api/v1/analyses/{id}
//	GET    /metrics
//
// Every /api/v1 route requires the X-API-Key header when an API key is configured.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Routes builds the router. gatherer serves /metrics; nil omits the endpoint.
func (s *Server) Routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Authentication runs inside the instrumentation so rejected requests
	// are counted under their endpoint.
	protect := apiKeyMiddleware(s.config.APIKey, s.metrics)
	route := func(method, pattern string, handler http.HandlerFunc) http.HandlerFunc {
		return s.metrics.InstrumentHandler(method, "/api/v1"+pattern, protect(handler).ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", route("GET", "/health", s.handleHealth))
		r.Post("/analyze", route("POST", "/analyze", s.handleAnalyze))

		r.Get("/analyses", route("GET", "/analyses", s.handleListAnalyses))
		r.Get("/analyses/summary", route("GET", "/analyses/summary", s.handleSummary))
		r.Get("/analyses/{id}", route("GET", "/analyses/{id}", s.handleGetAnalysis))
		r.Delete("/analyses/{id}", route("DELETE", "/analyses/{id}", s.handleDeleteAnalysis))
	})

	return r
}

// Addr returns the listen address of the configured bind and port
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, gatherer prometheus.Gatherer) error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, listener, gatherer)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener, gatherer prometheus.Gatherer) error {
	srv := &http.Server{
		Handler:           s.Routes(gatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", listener.Addr().String(), "auth", s.config.APIKey != "")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
