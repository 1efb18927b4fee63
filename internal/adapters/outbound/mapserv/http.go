package mapserv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

// Doer sends HTTP requests. *http.Client and *httpclient.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPEngine calls a remote mapserv CGI endpoint. Mapfile paths are sent
// as-is, so the remote host must see the same filesystem layout.
type HTTPEngine struct {
	mapfiles
	endpoint string
	client   Doer
}

// NewHTTPEngine returns an engine calling endpoint, e.g.
// http://maps.example.org/cgi-bin/mapserv. A nil client uses a plain
// http.Client with a 30 second timeout.
func NewHTTPEngine(endpoint string, client Doer) *HTTPEngine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPEngine{endpoint: endpoint, client: client}
}

// Endpoint returns the CGI address.
func (e *HTTPEngine) Endpoint() string {
	return e.endpoint
}

// Draw renders m with mode=map.
func (e *HTTPEngine) Draw(ctx context.Context, m *mapfile.Map) (*ports.Image, error) {
	path, cleanup, err := materialize(m)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out, err := e.get(ctx, drawQuery(path))
	if err != nil {
		return nil, err
	}
	return imageFromOutput(out)
}

// Dispatch sends req to the endpoint with its map parameter replaced by the
// materialized mapfile. The response is returned in CGI form, Content-Type
// header first.
func (e *HTTPEngine) Dispatch(ctx context.Context, m *mapfile.Map, req *ports.OWSRequest) (*ports.OutputBuffer, error) {
	path, cleanup, err := materialize(m)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out, err := e.get(ctx, bindMap(req, path).Encode())
	if err != nil {
		return nil, err
	}
	if err := checkMessage(out.Bytes()); err != nil {
		return nil, err
	}
	return out, nil
}

// Version is not available over CGI.
func (e *HTTPEngine) Version(context.Context) (int, error) {
	return 0, fmt.Errorf("%w: version is only reported by a local mapserv binary", domain.ErrNativeBindingMissing)
}

func (e *HTTPEngine) get(ctx context.Context, query string) (*ports.OutputBuffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"?"+query, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ports.ErrEngineStatus, resp.StatusCode, e.endpoint)
	}
	return ports.CGIOutput(resp.Header.Get("Content-Type"), body), nil
}

var _ ports.Engine = (*HTTPEngine)(nil)
