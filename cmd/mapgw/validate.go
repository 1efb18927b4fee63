package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/mapgw/internal/config"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a mapgw configuration file",
		Example: `  mapgw validate mapgw.yaml

  # Use in CI/CD pipelines
  if mapgw validate config/production.yaml; then
      echo "Configuration is valid"
  fi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s is valid\n", path)
			fmt.Fprintf(out, "  Endpoint: http://%s%s (engine %s)\n", cfg.MapServer.Hostname, cfg.MapServer.URI, cfg.MapServer.Engine)
			fmt.Fprintf(out, "  Storage:  %s\n", cfg.Storage.Path)
			if cfg.MTLSEnabled() {
				fmt.Fprintf(out, "  mTLS:     %s\n", cfg.SPIRE.WorkloadSocket)
			}
			return nil
		},
	}
}
