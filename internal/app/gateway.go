package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

const (
	// DefaultHostname is used when no hostname is configured.
	DefaultHostname = "localhost"
	// DefaultURI is the conventional mapserv CGI location.
	DefaultURI = "/cgi-bin/mapserv"
)

// Gateway bridges a host application to a MapServer engine.
//
// The only mutable state shared between callers is the installation flag,
// which is an atomic. Map handles returned by CreateMap belong to the caller.
// Concurrent CreateMap calls on the same mapfile path are not coordinated.
type Gateway struct {
	hostname    string
	uri         string
	path        string
	storagePath string

	engine   ports.Engine
	detector ports.BindingDetector
	prober   ports.Prober

	installed atomic.Bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEngine sets the engine used for map operations.
func WithEngine(e ports.Engine) Option {
	return func(g *Gateway) { g.engine = e }
}

// WithDetector sets the local binding detector.
func WithDetector(d ports.BindingDetector) Option {
	return func(g *Gateway) { g.detector = d }
}

// WithProber sets the client used for the reachability probe.
func WithProber(p ports.Prober) Option {
	return func(g *Gateway) { g.prober = p }
}

// NewGateway builds a gateway for the engine at http://hostname+uri.
// No I/O is performed.
func NewGateway(hostname, uri string, opts ...Option) *Gateway {
	if hostname == "" {
		hostname = DefaultHostname
	}
	if uri == "" {
		uri = DefaultURI
	}
	g := &Gateway{
		hostname: hostname,
		uri:      uri,
		path:     "http://" + hostname + uri,
		detector: noBinding{},
		engine:   unavailableEngine{},
		prober:   unavailableProber{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Path returns the engine endpoint address.
func (g *Gateway) Path() string {
	return g.path
}

// Hostname returns the configured engine hostname.
func (g *Gateway) Hostname() string {
	return g.hostname
}

// DefaultTemplate returns the template written when a map template is missing.
func (g *Gateway) DefaultTemplate() string {
	return mapfile.DefaultTemplate
}

// SetStoragePath sets the directory generated map configuration is stored in.
// The parent directory of path must be writable; path itself may not exist yet.
func (g *Gateway) SetStoragePath(path string) error {
	parent := filepath.Dir(filepath.Clean(path))
	if err := checkWritable(parent); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageNotWritable, path, err)
	}
	g.storagePath = path
	return nil
}

// StoragePath returns the storage path set with SetStoragePath.
func (g *Gateway) StoragePath() string {
	return g.storagePath
}

// IsInstalled reports whether the engine answers at Path(). The first
// successful check is cached for the lifetime of the gateway and never
// repeated. Failed checks are not cached.
func (g *Gateway) IsInstalled(ctx context.Context) (bool, error) {
	if g.installed.Load() {
		return true, nil
	}

	status, err := g.prober.Probe(ctx, g.path)
	if err != nil {
		return false, fmt.Errorf("%w at %s: %w", domain.ErrEngineUnreachable, g.path, err)
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("%w at %s: status %d", domain.ErrEngineUnreachable, g.path, status)
	}

	if g.hostname == DefaultHostname && !g.MapscriptExists() {
		return false, domain.ErrNativeBindingMissing
	}

	g.installed.Store(true)
	return true, nil
}

// MapscriptExists reports whether the local MapServer binding is present.
func (g *Gateway) MapscriptExists() bool {
	return g.detector.Available()
}

// Version returns the engine version as major*10000 + minor*100 + revision.
func (g *Gateway) Version(ctx context.Context) (int, error) {
	return g.engine.Version(ctx)
}

// CreateMap writes the default mapfile and template when they are missing,
// loads the map, names it, points it at templatePath and at this gateway
// for WMS online resources, and saves it back to mapfilePath.
func (g *Gateway) CreateMap(ctx context.Context, name, mapfilePath, templatePath string) (*mapfile.Map, error) {
	if err := writeIfMissing(mapfilePath, mapfile.DefaultMapfile); err != nil {
		return nil, err
	}
	if err := writeIfMissing(templatePath, mapfile.DefaultTemplate); err != nil {
		return nil, err
	}

	m, err := g.engine.LoadMap(ctx, mapfilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMapLoadFailed, mapfilePath, err)
	}

	g.configure(m, name, mapfilePath, templatePath)

	if err := g.engine.SaveMap(ctx, m, mapfilePath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfigWriteFailed, mapfilePath, err)
	}
	return m, nil
}

// OpenMap loads an existing mapfile and applies the same name, template and
// online resource as CreateMap, in memory only. Nothing is written, so
// concurrent readers of one mapfile never observe a partial file.
func (g *Gateway) OpenMap(ctx context.Context, name, mapfilePath, templatePath string) (*mapfile.Map, error) {
	m, err := g.engine.LoadMap(ctx, mapfilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMapLoadFailed, mapfilePath, err)
	}
	g.configure(m, name, mapfilePath, templatePath)
	return m, nil
}

func (g *Gateway) configure(m *mapfile.Map, name, mapfilePath, templatePath string) {
	m.SetName(name)
	m.SetTemplate(templatePath)
	m.SetMetaData("wms_onlineresource", g.path+"?map="+mapfilePath)
}

// CapabilitiesResponse dispatches a WMS 1.1.1 GetCapabilities request
// against m and wraps the XML document the engine produced.
func (g *Gateway) CapabilitiesResponse(ctx context.Context, m *mapfile.Map) (*ports.Response, error) {
	req := ports.NewOWSRequest()
	req.AddParameter("map", m.MetaData("wms_onlineresource"))
	req.AddParameter("SERVICE", "WMS")
	req.AddParameter("VERSION", "1.1.1")
	req.AddParameter("REQUEST", "GetCapabilities")

	out, err := g.engine.Dispatch(ctx, m, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDispatchFailed, err)
	}

	contentType := out.StripContentType()
	body := out.Bytes()
	if i := bytes.Index(body, []byte("<?xml")); i > 0 {
		body = body[i:]
	}
	return ports.NewResponse(body, contentType), nil
}

// ImageResponse renders m into imagePath/<map name> and wraps the image file
// with the content type detected from its contents. The map name must be a
// valid map name so the image cannot land outside imagePath.
func (g *Gateway) ImageResponse(ctx context.Context, m *mapfile.Map, imagePath, imageURL string) (*ports.Response, error) {
	if err := domain.ValidateMapName(m.Name()); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	filename := filepath.Join(imagePath, m.Name())
	m.SetImagePath(imagePath)
	m.SetImageURL(imageURL)

	img, err := g.engine.Draw(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	if err := img.Save(filename); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFileIOFailed, err)
	}

	data, err := os.ReadFile(filename) // #nosec G304 - filename is built from the configured image path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFileIOFailed, err)
	}
	return ports.NewResponse(data, mimetype.Detect(data).String()), nil
}

// writeIfMissing creates path with content unless something already exists there.
func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", domain.ErrConfigWriteFailed, path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 - mapfiles are read by the mapserv process
		return fmt.Errorf("%w: %s: %w", domain.ErrConfigWriteFailed, path, err)
	}
	return nil
}

// noBinding reports the local binding as absent.
type noBinding struct{}

func (noBinding) Available() bool { return false }

// unavailableProber fails every probe.
type unavailableProber struct{}

func (unavailableProber) Probe(context.Context, string) (int, error) {
	return 0, errors.New("no prober configured")
}

// unavailableEngine fails every engine call.
type unavailableEngine struct{}

var errNoEngine = errors.New("no engine configured")

func (unavailableEngine) LoadMap(context.Context, string) (*mapfile.Map, error) {
	return nil, errNoEngine
}

func (unavailableEngine) SaveMap(context.Context, *mapfile.Map, string) error {
	return errNoEngine
}

func (unavailableEngine) Draw(context.Context, *mapfile.Map) (*ports.Image, error) {
	return nil, errNoEngine
}

func (unavailableEngine) Dispatch(context.Context, *mapfile.Map, *ports.OWSRequest) (*ports.OutputBuffer, error) {
	return nil, errNoEngine
}

func (unavailableEngine) Version(context.Context) (int, error) {
	return 0, fmt.Errorf("%w: %w", domain.ErrNativeBindingMissing, errNoEngine)
}

var _ ports.MapService = (*Gateway)(nil)
