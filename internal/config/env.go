package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// applyEnvOverrides overrides config values with environment variables if set
// Returns error for invalid environment variable values to fail fast
func applyEnvOverrides(cfg *FileConfig) error {
	// MapServer configuration
	if hostname := os.Getenv("MAPSERVER_HOSTNAME"); hostname != "" {
		cfg.MapServer.Hostname = hostname
	}
	if uri := os.Getenv("MAPSERVER_URI"); uri != "" {
		cfg.MapServer.URI = uri
	}
	if engine := os.Getenv("MAPSERVER_ENGINE"); engine != "" {
		cfg.MapServer.Engine = strings.ToLower(strings.TrimSpace(engine))
	}
	if binary := os.Getenv("MAPSERVER_BINARY"); binary != "" {
		cfg.MapServer.Binary = binary
	}
	if timeout := os.Getenv("MAPGW_PROBE_TIMEOUT"); timeout != "" {
		t, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid MAPGW_PROBE_TIMEOUT %q: %w", timeout, err)
		}
		cfg.MapServer.ProbeTimeout = t
	}

	// Storage configuration
	if path := os.Getenv("MAPGW_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if registry := os.Getenv("MAPGW_REGISTRY_PATH"); registry != "" {
		cfg.Storage.Registry = registry
	}

	// Image configuration
	if path := os.Getenv("MAPGW_IMAGE_PATH"); path != "" {
		cfg.Images.Path = path
	}
	if url := os.Getenv("MAPGW_IMAGE_URL"); url != "" {
		cfg.Images.URL = url
	}

	// Server configuration
	if addr := os.Getenv("MAPGW_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}

	// SPIRE configuration
	if socketPath := os.Getenv("SPIRE_AGENT_SOCKET"); socketPath != "" {
		cfg.SPIRE.WorkloadSocket = socketPath
	}

	if debug := os.Getenv("MAPGW_DEBUG"); debug != "" {
		d, err := parseBool(debug)
		if err != nil {
			return fmt.Errorf("invalid MAPGW_DEBUG %q: %w", debug, err)
		}
		cfg.Debug = d
	}
	if file := os.Getenv("MAPGW_DEBUG_FILE"); file != "" {
		cfg.DebugFile = file
	}

	return nil
}

// parseBool parses boolean environment variables
// Accepts: "true", "1", "yes", "on" for true; "false", "0", "no", "off" for false
func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
