package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/missioncontrol/cmd/missionctl/handlers"
)

// Serve returns the serve command.
func Serve() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the launch API over HTTP",
		Long: `Serve exposes launches over HTTP. The catalog is indexed in the
background while the server starts.

Endpoints:
  POST /api/launch     launch a booster
  GET  /api/boosters   list the catalog
  GET  /healthz        liveness
  GET  /readyz         catalog readiness
  GET  /metrics        Prometheus metrics

Example:
  missionctl serve --address :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath, address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (defaults to the configured server address)")

	return cmd
}
