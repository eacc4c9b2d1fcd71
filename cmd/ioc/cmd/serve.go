/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/coincidence/pkg/api"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		bind   string
		port   int
		apiKey string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis REST API server",
		Long: `Start the HTTP server exposing the analyzer.

The server accepts raw text on POST /api/v1/analyze and reports its kappa
plaintext, index of coincidence and likely language. When history is enabled
in the config, analyses can be recorded and browsed under /api/v1/analyses.
Prometheus metrics are served on /metrics.

Examples:
  ioc serve
  ioc serve --bind 0.0.0.0 --port 9200 --api-key mysecretkey`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConfig := api.ServerConfig{
				Bind:   a.config.Server.Bind,
				Port:   a.config.Server.Port,
				APIKey: a.config.Server.APIKey,
			}
			if cmd.Flags().Changed("bind") {
				serverConfig.Bind = bind
			}
			if cmd.Flags().Changed("port") {
				serverConfig.Port = port
			}
			if cmd.Flags().Changed("api-key") {
				serverConfig.APIKey = apiKey
			}
			if serverConfig.Port < 0 || serverConfig.Port > 65535 {
				return newUsageError("port %d out of range", serverConfig.Port)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// A nil interface, not a nil *history.Store, disables history
			var store api.HistoryStore
			if a.config.History.Enabled {
				opened, err := a.container.OpenHistory(a.config.History.Dir)
				if err != nil {
					return fmt.Errorf("failed to open history: %w", err)
				}
				defer opened.Close()
				store = opened
			}

			if serverConfig.APIKey == "" {
				a.logger.Warn("API key not set, /api/v1 is unauthenticated")
			}

			starter := a.container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(ctx, store, serverConfig, a.logger)
		},
	}

	serveCmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&apiKey, "api-key", "", "API key required in the X-API-Key header")

	return serveCmd
}

