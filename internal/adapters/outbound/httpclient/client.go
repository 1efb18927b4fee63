package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"
	"github.com/spiffe/go-spiffe/v2/workloadapi"

	"github.com/sufield/mapgw/internal/ports"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// probeDrainLimit caps how much of a probe response body is read.
const probeDrainLimit = 64 << 10

// Client is an HTTP client for the MapServer endpoint. It is used both for
// the reachability probe and as the transport of the CGI engine.
type Client struct {
	client *http.Client
	closer io.Closer
}

// New creates a plain HTTP client with the given timeout.
// A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{
			Transport: newTransport(),
			Timeout:   timeout,
		},
	}
}

// X509Source provides both the client SVID and the trust bundle.
// *workloadapi.X509Source satisfies it.
type X509Source interface {
	x509svid.Source
	x509bundle.Source
}

// X509SourceProvider opens an X509Source. The returned closer stops
// SVID rotation.
type X509SourceProvider interface {
	X509Source(ctx context.Context) (X509Source, io.Closer, error)
}

// WorkloadAPISourceProvider fetches SVIDs from a SPIRE agent.
type WorkloadAPISourceProvider struct {
	// SocketPath is the Workload API address, e.g. unix:///tmp/spire-agent/public/api.sock
	SocketPath string
}

// X509Source connects to the Workload API and waits for the first SVID.
func (p *WorkloadAPISourceProvider) X509Source(ctx context.Context) (X509Source, io.Closer, error) {
	if p.SocketPath == "" {
		return nil, nil, errors.New("workload API socket path is required")
	}
	source, err := workloadapi.NewX509Source(ctx,
		workloadapi.WithClientOptions(workloadapi.WithAddr(p.SocketPath)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create X509Source: %w", err)
	}
	return source, source, nil
}

// ClientConfig configures an mTLS client.
type ClientConfig struct {
	// X509SourceProvider supplies the client SVID and trust bundle.
	X509SourceProvider X509SourceProvider
	// ServerAuthorizer verifies the server's SPIFFE ID.
	ServerAuthorizer tlsconfig.Authorizer
	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// NewSPIFFE creates an mTLS client that presents an X.509 SVID and only
// accepts servers approved by cfg.ServerAuthorizer.
func NewSPIFFE(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.X509SourceProvider == nil {
		return nil, errors.New("X509SourceProvider is required")
	}
	if cfg.ServerAuthorizer == nil {
		return nil, errors.New("server authorizer is required")
	}

	source, closer, err := cfg.X509SourceProvider.X509Source(ctx)
	if err != nil {
		return nil, err
	}

	transport := newTransport()
	transport.TLSClientConfig = tlsconfig.MTLSClientConfig(source, source, cfg.ServerAuthorizer)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{Transport: transport, Timeout: timeout},
		closer: closer,
	}, nil
}

// Authorizer builds a server authorizer from an expected SPIFFE ID or,
// failing that, an expected trust domain. Exactly one must be set.
func Authorizer(serverID, trustDomain string) (tlsconfig.Authorizer, error) {
	switch {
	case serverID != "" && trustDomain != "":
		return nil, errors.New("set either a server SPIFFE ID or a trust domain, not both")
	case serverID != "":
		id, err := spiffeid.FromString(serverID)
		if err != nil {
			return nil, fmt.Errorf("invalid server SPIFFE ID %q: %w", serverID, err)
		}
		return tlsconfig.AuthorizeID(id), nil
	case trustDomain != "":
		td, err := spiffeid.TrustDomainFromString(trustDomain)
		if err != nil {
			return nil, fmt.Errorf("invalid trust domain %q: %w", trustDomain, err)
		}
		return tlsconfig.AuthorizeMemberOf(td), nil
	default:
		return nil, errors.New("a server SPIFFE ID or trust domain is required")
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// Probe issues a GET to url and returns the response status code.
// Any received status is returned without error.
func (c *Client) Probe(ctx context.Context, url string) (int, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, probeDrainLimit))
	return resp.StatusCode, nil
}

// Get performs an HTTP GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.client.Do(req)
}

// Do performs an HTTP request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// Close releases all resources used by the client.
func (c *Client) Close() error {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	if c.closer != nil {
		if err := c.closer.Close(); err != nil {
			return fmt.Errorf("failed to close X509Source: %w", err)
		}
	}
	return nil
}

// SetTimeout changes the client timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// HTTPClient returns the underlying *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

var _ ports.Prober = (*Client)(nil)
