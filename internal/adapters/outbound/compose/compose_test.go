package compose

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/mapgw/internal/adapters/outbound/httpclient"
	"github.com/sufield/mapgw/internal/adapters/outbound/inmemory"
	"github.com/sufield/mapgw/internal/adapters/outbound/mapserv"
	"github.com/sufield/mapgw/internal/config"
	"github.com/sufield/mapgw/internal/domain"
)

func testConfig(t *testing.T) *config.FileConfig {
	t.Helper()
	storage := filepath.Join(t.TempDir(), "userdata")
	return &config.FileConfig{
		MapServer: config.MapServerSection{
			Hostname:     "maps.example.org",
			URI:          "/cgi-bin/mapserv",
			Engine:       config.EngineAuto,
			Binary:       "mapgw-test-no-such-mapserv",
			ProbeTimeout: time.Second,
		},
		Storage: config.StorageSection{
			Path:     storage,
			Registry: filepath.Join(storage, "mapgw.db"),
		},
	}
}

func TestBuild_Plain(t *testing.T) {
	cfg := testConfig(t)

	rt, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, rt.Close()) })

	assert.Equal(t, "http://maps.example.org/cgi-bin/mapserv", rt.Gateway.Path())
	assert.Equal(t, cfg.Storage.Path, rt.Gateway.StoragePath())
	assert.Equal(t, config.EngineCGI, rt.Engine)
	assert.False(t, rt.Gateway.MapscriptExists())
	assert.Equal(t, cfg.Storage.Registry, rt.Registry.Path())
	require.NotNil(t, rt.Metrics)

	recs, err := rt.Registry.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBuild_StorageNotWritable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Path = filepath.Join(t.TempDir(), "missing", "userdata")

	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageNotWritable)
}

func TestBuild_NilConfig(t *testing.T) {
	_, err := Build(context.Background(), nil)
	assert.ErrorContains(t, err, "config cannot be nil")
}

func TestBuild_MTLSSourceFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.SPIRE = config.SPIRESection{
		WorkloadSocket:            "unix:///tmp/spire-agent/public/api.sock",
		ExpectedServerTrustDomain: "example.org",
	}

	_, err := Build(context.Background(), cfg, WithX509SourceProvider(failingProvider{}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to create mTLS client")
	assert.ErrorContains(t, err, "no agent")
}

func TestNewClient_MTLSNeedsAuthorizer(t *testing.T) {
	cfg := testConfig(t)
	cfg.SPIRE.WorkloadSocket = "unix:///tmp/spire-agent/public/api.sock"

	_, err := NewClient(context.Background(), cfg, failingProvider{})
	assert.ErrorContains(t, err, "is required")
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name      string
		engine    string
		available bool
		want      string
	}{
		{"auto without binary", config.EngineAuto, false, config.EngineCGI},
		{"auto with binary", config.EngineAuto, true, config.EngineExec},
		{"exec", config.EngineExec, false, config.EngineExec},
		{"cgi", config.EngineCGI, true, config.EngineCGI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.MapServer.Engine = tt.engine

			engine, kind, err := NewEngine(cfg, http.DefaultClient, inmemory.Detector(tt.available))
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)

			switch kind {
			case config.EngineExec:
				exec, ok := engine.(*mapserv.ExecEngine)
				require.True(t, ok)
				assert.Equal(t, cfg.MapServer.Binary, exec.Binary())
			case config.EngineCGI:
				cgi, ok := engine.(*mapserv.HTTPEngine)
				require.True(t, ok)
				assert.Equal(t, "http://maps.example.org/cgi-bin/mapserv", cgi.Endpoint())
			}
		})
	}
}

func TestNewEngine_Unknown(t *testing.T) {
	cfg := testConfig(t)
	cfg.MapServer.Engine = "mapscript"
	_, _, err := NewEngine(cfg, nil, inmemory.Detector(true))
	assert.ErrorContains(t, err, `unknown engine "mapscript"`)
}

func TestEndpoint(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, "http://maps.example.org/cgi-bin/mapserv", Endpoint(cfg))

	cfg.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
	assert.Equal(t, "https://maps.example.org/cgi-bin/mapserv", Endpoint(cfg))
}

func TestHTTPSProber(t *testing.T) {
	inner := inmemory.NewProber(http.StatusOK)
	p := httpsProber{inner}

	status, err := p.Probe(context.Background(), "http://maps.example.org/cgi-bin/mapserv")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"https://maps.example.org/cgi-bin/mapserv"}, inner.URLs())
}

type failingProvider struct{}

func (failingProvider) X509Source(context.Context) (httpclient.X509Source, io.Closer, error) {
	return nil, nil, errors.New("no agent")
}
