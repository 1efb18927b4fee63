package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

// PNGHeader is the signature and IHDR chunk of a 1x1 PNG, enough for
// content sniffing to report image/png.
var PNGHeader = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

// CapabilitiesXML is the document returned by default for OWS requests.
const CapabilitiesXML = `<?xml version='1.0' encoding="UTF-8" standalone="no" ?>
<WMT_MS_Capabilities version="1.1.1"><Service><Name>OGC:WMS</Name></Service></WMT_MS_Capabilities>`

// Engine is an in-memory ports.Engine.
type Engine struct {
	mu sync.Mutex

	output     []byte
	image      []byte
	version    int
	hasVersion bool

	loadErr     error
	saveErr     error
	drawErr     error
	dispatchErr error

	requests []*ports.OWSRequest
	drawn    []*mapfile.Map
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOutput sets the raw output returned by Dispatch.
func WithOutput(raw []byte) EngineOption {
	return func(e *Engine) { e.output = raw }
}

// WithImage sets the bytes returned by Draw.
func WithImage(data []byte) EngineOption {
	return func(e *Engine) { e.image = data }
}

// WithVersion makes Version report v.
func WithVersion(v int) EngineOption {
	return func(e *Engine) {
		e.version = v
		e.hasVersion = true
	}
}

// WithLoadError makes LoadMap fail with err.
func WithLoadError(err error) EngineOption {
	return func(e *Engine) { e.loadErr = err }
}

// WithSaveError makes SaveMap fail with err.
func WithSaveError(err error) EngineOption {
	return func(e *Engine) { e.saveErr = err }
}

// WithDrawError makes Draw fail with err.
func WithDrawError(err error) EngineOption {
	return func(e *Engine) { e.drawErr = err }
}

// WithDispatchError makes Dispatch fail with err.
func WithDispatchError(err error) EngineOption {
	return func(e *Engine) { e.dispatchErr = err }
}

// NewEngine returns an engine that answers OWS requests with CapabilitiesXML
// and draws PNGHeader.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		output: ports.CGIOutput("application/vnd.ogc.wms_xml; charset=UTF-8", []byte(CapabilitiesXML)).Bytes(),
		image:  PNGHeader,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadMap parses the mapfile at path.
func (e *Engine) LoadMap(_ context.Context, path string) (*mapfile.Map, error) {
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	return mapfile.Load(path)
}

// SaveMap writes m to path.
func (e *Engine) SaveMap(_ context.Context, m *mapfile.Map, path string) error {
	if e.saveErr != nil {
		return e.saveErr
	}
	return m.Save(path)
}

// Draw records a copy of m and returns the configured image.
func (e *Engine) Draw(_ context.Context, m *mapfile.Map) (*ports.Image, error) {
	if e.drawErr != nil {
		return nil, e.drawErr
	}
	e.mu.Lock()
	e.drawn = append(e.drawn, m.Clone())
	e.mu.Unlock()
	return &ports.Image{Data: append([]byte(nil), e.image...), ContentType: "image/png"}, nil
}

// Dispatch records req and returns the configured output.
func (e *Engine) Dispatch(_ context.Context, _ *mapfile.Map, req *ports.OWSRequest) (*ports.OutputBuffer, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()
	if e.dispatchErr != nil {
		return nil, e.dispatchErr
	}
	return ports.NewOutputBuffer(append([]byte(nil), e.output...)), nil
}

// Version returns the configured version.
func (e *Engine) Version(context.Context) (int, error) {
	if !e.hasVersion {
		return 0, fmt.Errorf("%w: in-memory engine has no version", domain.ErrNativeBindingMissing)
	}
	return e.version, nil
}

// Requests returns the OWS requests dispatched so far.
func (e *Engine) Requests() []*ports.OWSRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*ports.OWSRequest(nil), e.requests...)
}

// Drawn returns copies of the maps drawn so far.
func (e *Engine) Drawn() []*mapfile.Map {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*mapfile.Map(nil), e.drawn...)
}

var _ ports.Engine = (*Engine)(nil)
