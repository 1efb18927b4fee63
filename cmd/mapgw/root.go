package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sufield/mapgw"
	"github.com/sufield/mapgw/internal/adapters/outbound/compose"
	"github.com/sufield/mapgw/internal/config"
	"github.com/sufield/mapgw/internal/debug"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mapgw",
		Short:         "MapServer gateway",
		Long:          "mapgw creates mapfiles, answers WMS GetCapabilities requests and renders map images through MapServer.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", os.Getenv(mapgw.ConfigEnv), "config file (default $"+mapgw.ConfigEnv+", environment only when empty)")
	root.PersistentFlags().Bool("json", false, "output in JSON format")

	root.AddCommand(
		newServeCommand(),
		newCheckCommand(),
		newVersionCommand(),
		newValidateCommand(),
		newMapCommand(),
	)
	return root
}

// loadConfig loads and validates the config named by --config.
func loadConfig(cmd *cobra.Command) (*config.FileConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	debug.InitLogger(debug.Options{Enabled: cfg.Debug, File: cfg.DebugFile})
	return cfg, nil
}

// buildRuntime composes the gateway for the command's config.
func buildRuntime(cmd *cobra.Command) (*compose.Runtime, *config.FileConfig, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	rt, err := compose.Build(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return rt, cfg, nil
}

func jsonMode(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
