package ports

import (
	"context"

	"github.com/sufield/mapgw/internal/mapfile"
)

// MapService is the set of gateway operations exposed to drivers (HTTP API, CLI).
// Implemented by *app.Gateway.
type MapService interface {
	// Path returns the engine endpoint address
	Path() string

	// StoragePath returns the directory generated mapfiles are stored in
	StoragePath() string

	// IsInstalled reports whether the engine is reachable (cached after first success)
	IsInstalled(ctx context.Context) (bool, error)

	// MapscriptExists reports whether the local binding is present
	MapscriptExists() bool

	// Version returns the engine version integer
	Version(ctx context.Context) (int, error)

	// CreateMap bootstraps, loads, configures and persists a map handle
	CreateMap(ctx context.Context, name, mapfilePath, templatePath string) (*mapfile.Map, error)

	// OpenMap loads and configures an existing map handle without writing it
	OpenMap(ctx context.Context, name, mapfilePath, templatePath string) (*mapfile.Map, error)

	// CapabilitiesResponse dispatches a WMS GetCapabilities request for the map
	CapabilitiesResponse(ctx context.Context, m *mapfile.Map) (*Response, error)

	// ImageResponse renders the map into imagePath and wraps the image
	ImageResponse(ctx context.Context, m *mapfile.Map, imagePath, imageURL string) (*Response, error)
}
