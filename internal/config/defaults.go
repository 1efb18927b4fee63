package config

import (
	"path/filepath"
	"time"
)

// Engine adapter names.
const (
	EngineAuto = "auto"
	EngineExec = "exec"
	EngineCGI  = "cgi"
)

const (
	DefaultHostname     = "localhost"
	DefaultURI          = "/cgi-bin/mapserv"
	DefaultEngine       = EngineAuto
	DefaultBinary       = "mapserv"
	DefaultProbeTimeout = 10 * time.Second

	DefaultStoragePath = "./userdata"
	DefaultRegistry    = "mapgw.db"
	DefaultImagePath   = "/tmp/"
	DefaultImageURL    = "/tmp/"

	DefaultListenAddr      = "127.0.0.1:8080" // loopback unless explicitly changed
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// applyDefaults sets default values for unspecified configuration
func applyDefaults(cfg *FileConfig) {
	// MapServer defaults
	if cfg.MapServer.Hostname == "" {
		cfg.MapServer.Hostname = DefaultHostname
	}
	if cfg.MapServer.URI == "" {
		cfg.MapServer.URI = DefaultURI
	}
	if cfg.MapServer.Engine == "" {
		cfg.MapServer.Engine = DefaultEngine
	}
	if cfg.MapServer.Binary == "" {
		cfg.MapServer.Binary = DefaultBinary
	}
	if cfg.MapServer.ProbeTimeout == 0 {
		cfg.MapServer.ProbeTimeout = DefaultProbeTimeout
	}

	// Storage defaults
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.Registry == "" {
		cfg.Storage.Registry = filepath.Join(cfg.Storage.Path, DefaultRegistry)
	}

	// Image defaults
	if cfg.Images.Path == "" {
		cfg.Images.Path = DefaultImagePath
	}
	if cfg.Images.URL == "" {
		cfg.Images.URL = DefaultImageURL
	}

	// Server defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
}
