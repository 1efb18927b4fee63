// Package mapgw serves a MapServer gateway over HTTP from a config file.
//
// The gateway creates mapfiles in a storage directory, answers WMS
// GetCapabilities requests and renders map images through a local mapserv
// binary or a remote mapserv CGI endpoint.
//
// Quick Start:
//
//	srv, err := mapgw.Start("mapgw.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Shutdown()
//
// Or, with the config path taken from MAPGW_CONFIG and signal handling:
//
//	if err := mapgw.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Configuration (mapgw.yaml):
//
//	mapserver:
//	  hostname: localhost
//	  uri: /cgi-bin/mapserv
//	  engine: auto
//	storage:
//	  path: ./userdata
//	images:
//	  path: /tmp/
//	  url: /tmp/
//	server:
//	  listen_addr: 127.0.0.1:8080
package mapgw

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sufield/mapgw/internal/adapters/inbound/httpapi"
	"github.com/sufield/mapgw/internal/adapters/outbound/compose"
	"github.com/sufield/mapgw/internal/config"
	"github.com/sufield/mapgw/internal/debug"
)

// ConfigEnv names the environment variable Run reads the config path from.
const ConfigEnv = "MAPGW_CONFIG"

// Server is a running gateway HTTP service.
type Server struct {
	runtime         *compose.Runtime
	http            *httpapi.HTTPServer
	shutdownTimeout time.Duration

	once        sync.Once
	shutdownErr error
}

// Start loads configPath, builds the gateway and starts serving the HTTP
// API in the background. An empty configPath configures from environment
// variables and defaults only.
func Start(configPath string) (*Server, error) {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return start(context.Background(), cfg)
}

func start(ctx context.Context, cfg *config.FileConfig, opts ...compose.Option) (*Server, error) {
	debug.InitLogger(debug.Options{Enabled: cfg.Debug, File: cfg.DebugFile})

	rt, err := compose.Build(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(rt.Gateway, rt.Registry, httpapi.Options{
		ImagePath: cfg.Images.Path,
		ImageURL:  cfg.Images.URL,
		Metrics:   rt.Metrics,
	})
	srv, err := httpapi.NewHTTPServer(httpapi.ServerConfig{
		Address:      cfg.Server.ListenAddr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})
	if err != nil {
		return nil, errors.Join(err, rt.Close())
	}
	if err := srv.Start(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("server startup failed: %w", err), rt.Close())
	}

	log.Printf("mapgw: engine %s (%s), storage %s", rt.Gateway.Path(), rt.Engine, rt.Gateway.StoragePath())

	return &Server{
		runtime:         rt,
		http:            srv,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}, nil
}

// Addr returns the address the HTTP API listens on.
func (s *Server) Addr() string {
	return s.http.Addr()
}

// Shutdown stops the HTTP server and releases the registry and the engine
// client. It is safe to call more than once; later calls return the result
// of the first.
func (s *Server) Shutdown() error {
	s.once.Do(func() {
		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.shutdownErr = errors.Join(s.http.Stop(ctx), s.runtime.Close())
	})
	return s.shutdownErr
}

// Run starts the gateway with the config file named by MAPGW_CONFIG and
// blocks until SIGINT or SIGTERM, then shuts down gracefully.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := Start(os.Getenv(ConfigEnv))
	if err != nil {
		return err
	}

	log.Println("mapgw running - press Ctrl+C to stop")
	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	return srv.Shutdown()
}
