package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() FileConfig {
	cfg := FileConfig{}
	applyDefaults(&cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FileConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults",
			mutate: func(*FileConfig) {},
		},
		{
			name:    "empty hostname",
			mutate:  func(c *FileConfig) { c.MapServer.Hostname = "" },
			wantErr: true,
			errMsg:  "mapserver.hostname must be set",
		},
		{
			name:    "hostname with scheme",
			mutate:  func(c *FileConfig) { c.MapServer.Hostname = "http://maps.example.org" },
			wantErr: true,
			errMsg:  "must not contain a scheme or path",
		},
		{
			name:    "relative uri",
			mutate:  func(c *FileConfig) { c.MapServer.URI = "cgi-bin/mapserv" },
			wantErr: true,
			errMsg:  "mapserver.uri must start with '/'",
		},
		{
			name:    "unknown engine",
			mutate:  func(c *FileConfig) { c.MapServer.Engine = "mapscript" },
			wantErr: true,
			errMsg:  "mapserver.engine must be one of",
		},
		{
			name:    "negative probe timeout",
			mutate:  func(c *FileConfig) { c.MapServer.ProbeTimeout = -time.Second },
			wantErr: true,
			errMsg:  "mapserver.probe_timeout",
		},
		{
			name:    "empty storage path",
			mutate:  func(c *FileConfig) { c.Storage.Path = "" },
			wantErr: true,
			errMsg:  "storage.path must be set",
		},
		{
			name:    "empty registry",
			mutate:  func(c *FileConfig) { c.Storage.Registry = "" },
			wantErr: true,
			errMsg:  "storage.registry must be set",
		},
		{
			name:    "empty image path",
			mutate:  func(c *FileConfig) { c.Images.Path = "" },
			wantErr: true,
			errMsg:  "images.path must be set",
		},
		{
			name:    "empty listen addr",
			mutate:  func(c *FileConfig) { c.Server.ListenAddr = "" },
			wantErr: true,
			errMsg:  "server.listen_addr must be set",
		},
		{
			name:    "negative write timeout",
			mutate:  func(c *FileConfig) { c.Server.WriteTimeout = -1 },
			wantErr: true,
			errMsg:  "server.write_timeout",
		},
		{
			name: "spire with server id",
			mutate: func(c *FileConfig) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerSPIFFEID = "spiffe://example.org/mapserver"
			},
		},
		{
			name: "spire with trust domain",
			mutate: func(c *FileConfig) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerTrustDomain = "example.org"
			},
		},
		{
			name: "spire socket without scheme",
			mutate: func(c *FileConfig) {
				c.SPIRE.WorkloadSocket = "/tmp/agent.sock"
				c.SPIRE.ExpectedServerTrustDomain = "example.org"
			},
			wantErr: true,
			errMsg:  "must start with 'unix://'",
		},
		{
			name:    "spire without server policy",
			mutate:  func(c *FileConfig) { c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock" },
			wantErr: true,
			errMsg:  "must set exactly one of",
		},
		{
			name: "spire with both policies",
			mutate: func(c *FileConfig) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerSPIFFEID = "spiffe://example.org/mapserver"
				c.SPIRE.ExpectedServerTrustDomain = "example.org"
			},
			wantErr: true,
			errMsg:  "cannot set both",
		},
		{
			name: "spire with malformed id",
			mutate: func(c *FileConfig) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerSPIFFEID = "https://example.org/mapserver"
			},
			wantErr: true,
			errMsg:  "invalid spire.expected_server_spiffe_id",
		},
		{
			name: "spire with malformed trust domain",
			mutate: func(c *FileConfig) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerTrustDomain = "Example Org"
			},
			wantErr: true,
			errMsg:  "invalid spire.expected_server_trust_domain",
		},
		{
			name: "server policy ignored without socket",
			mutate: func(c *FileConfig) {
				c.SPIRE.ExpectedServerSPIFFEID = "not-an-id"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}
