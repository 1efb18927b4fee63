package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sufield/mapgw/internal/adapters/outbound/httpclient"
	"github.com/sufield/mapgw/internal/adapters/outbound/mapserv"
	"github.com/sufield/mapgw/internal/adapters/outbound/sqlitestore"
	"github.com/sufield/mapgw/internal/app"
	"github.com/sufield/mapgw/internal/config"
	"github.com/sufield/mapgw/internal/debug"
	"github.com/sufield/mapgw/internal/observability"
	"github.com/sufield/mapgw/internal/ports"
)

// Runtime holds the components built from one configuration.
// Close releases the registry and the client's SVID source.
type Runtime struct {
	Gateway  *app.Gateway
	Registry *sqlitestore.Store
	Metrics  *observability.Metrics
	Client   *httpclient.Client

	// Engine is the engine adapter in use: "exec" or "cgi".
	Engine string
}

// Option adjusts how a Runtime is built.
type Option func(*options)

type options struct {
	sourceProvider httpclient.X509SourceProvider
	metrics        *observability.Metrics
	readOnly       bool
}

// WithX509SourceProvider overrides the Workload API source used when
// SPIFFE mTLS is configured.
func WithX509SourceProvider(p httpclient.X509SourceProvider) Option {
	return func(o *options) { o.sourceProvider = p }
}

// WithMetrics uses m instead of a fresh metrics registry.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithReadOnlyRegistry opens the registry read-only.
func WithReadOnlyRegistry() Option {
	return func(o *options) { o.readOnly = true }
}

// Build wires a Runtime for cfg. cfg must already have defaults applied
// and be valid (see config.Load).
func Build(ctx context.Context, cfg *config.FileConfig, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = observability.NewMetrics()
	}

	client, err := NewClient(ctx, cfg, o.sourceProvider)
	if err != nil {
		return nil, err
	}

	detector := mapserv.BinaryDetector{Binary: cfg.MapServer.Binary}
	engine, kind, err := NewEngine(cfg, client, detector)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	var prober ports.Prober = client
	if cfg.MTLSEnabled() {
		prober = httpsProber{client}
	}

	gw := app.NewGateway(cfg.MapServer.Hostname, cfg.MapServer.URI,
		app.WithEngine(observability.InstrumentEngine(engine, o.metrics)),
		app.WithDetector(detector),
		app.WithProber(prober),
	)
	if err := gw.SetStoragePath(cfg.Storage.Path); err != nil {
		_ = client.Close()
		return nil, err
	}

	registry, err := sqlitestore.Open(sqlitestore.Options{
		Path:     cfg.Storage.Registry,
		ReadOnly: o.readOnly,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to open map registry: %w", err)
	}

	debug.GetLogger().Debugf("gateway composed: endpoint=%s engine=%s mtls=%t registry=%s",
		gw.Path(), kind, cfg.MTLSEnabled(), registry.Path())

	return &Runtime{
		Gateway:  gw,
		Registry: registry,
		Metrics:  o.metrics,
		Client:   client,
		Engine:   kind,
	}, nil
}

// Close releases the registry and the client.
func (r *Runtime) Close() error {
	var errs []error
	if r.Registry != nil {
		if err := r.Registry.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.Client != nil {
		if err := r.Client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewClient returns the HTTP client used to reach the engine endpoint.
// With a SPIRE workload socket configured it is an mTLS client that
// authorizes the server by SPIFFE ID or trust domain. A nil provider uses
// the configured Workload API socket.
func NewClient(ctx context.Context, cfg *config.FileConfig, provider httpclient.X509SourceProvider) (*httpclient.Client, error) {
	if !cfg.MTLSEnabled() {
		return httpclient.New(cfg.MapServer.ProbeTimeout), nil
	}

	authorizer, err := httpclient.Authorizer(cfg.SPIRE.ExpectedServerSPIFFEID, cfg.SPIRE.ExpectedServerTrustDomain)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		provider = &httpclient.WorkloadAPISourceProvider{SocketPath: cfg.SPIRE.WorkloadSocket}
	}
	client, err := httpclient.NewSPIFFE(ctx, httpclient.ClientConfig{
		X509SourceProvider: provider,
		ServerAuthorizer:   authorizer,
		Timeout:            cfg.MapServer.ProbeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mTLS client: %w", err)
	}
	return client, nil
}

// NewEngine selects the engine adapter for cfg.MapServer.Engine and returns
// it with the name of the adapter chosen. "auto" picks the local binary
// when detector finds it.
func NewEngine(cfg *config.FileConfig, client mapserv.Doer, detector ports.BindingDetector) (ports.Engine, string, error) {
	kind := cfg.MapServer.Engine
	if kind == config.EngineAuto {
		kind = config.EngineCGI
		if detector.Available() {
			kind = config.EngineExec
		}
	}

	switch kind {
	case config.EngineExec:
		return mapserv.NewExecEngine(cfg.MapServer.Binary), kind, nil
	case config.EngineCGI:
		return mapserv.NewHTTPEngine(Endpoint(cfg), client), kind, nil
	default:
		return nil, "", fmt.Errorf("unknown engine %q", cfg.MapServer.Engine)
	}
}

// Endpoint returns the URL the CGI engine calls: the gateway path, over
// https when SPIFFE mTLS is configured.
func Endpoint(cfg *config.FileConfig) string {
	scheme := "http"
	if cfg.MTLSEnabled() {
		scheme = "https"
	}
	return scheme + "://" + cfg.MapServer.Hostname + cfg.MapServer.URI
}

// httpsProber probes the gateway path over TLS. The gateway reports its
// path as http://, which an mTLS client cannot use.
type httpsProber struct {
	ports.Prober
}

func (p httpsProber) Probe(ctx context.Context, url string) (int, error) {
	if rest, ok := strings.CutPrefix(url, "http://"); ok {
		url = "https://" + rest
	}
	return p.Prober.Probe(ctx, url)
}
