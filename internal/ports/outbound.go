package ports

import (
	"context"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/mapfile"
)

// Engine is the narrow call interface onto the MapServer rendering engine.
//
// It covers load-map-from-file, save-map-to-file, draw-map-to-image,
// dispatch-request-against-map and get-version. Name, template and metadata
// accessors live on *mapfile.Map; output redirection and content-type
// stripping live on OutputBuffer.
//
// Error Contract:
// - LoadMap returns the parse or read error of the mapfile
// - SaveMap returns the write error of the mapfile
// - Draw returns an error if the engine could not render the map
// - Dispatch returns an error if the engine reported an internal error
// - Version returns domain.ErrNativeBindingMissing if the engine cannot report its version
type Engine interface {
	// LoadMap reads a map handle from the mapfile at path
	LoadMap(ctx context.Context, path string) (*mapfile.Map, error)

	// SaveMap writes the map handle to path
	SaveMap(ctx context.Context, m *mapfile.Map, path string) error

	// Draw renders the map handle as it is in memory
	Draw(ctx context.Context, m *mapfile.Map) (*Image, error)

	// Dispatch runs an OWS request against the map handle and returns
	// everything the engine wrote to its output, CGI header included
	Dispatch(ctx context.Context, m *mapfile.Map, req *OWSRequest) (*OutputBuffer, error)

	// Version returns the engine version as major*10000 + minor*100 + revision
	Version(ctx context.Context) (int, error)
}

// BindingDetector reports whether the local MapServer binding is present.
type BindingDetector interface {
	Available() bool
}

// Prober issues the reachability GET against the engine endpoint.
//
// Error Contract:
// - Probe returns a transport error when no HTTP response was received
// - Probe returns the status code of any response, including non-2xx ones
type Prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// MapRegistry records the maps created through the gateway service.
//
// Error Contract:
// - Get and Delete return an error wrapping domain.ErrMapNotFound for unknown names
// - Put replaces the paths of an existing record and keeps its ID and CreatedAt
type MapRegistry interface {
	// Put inserts or updates the record with rec.Name and returns the stored record
	Put(ctx context.Context, rec domain.MapRecord) (domain.MapRecord, error)

	// Get returns the record registered under name
	Get(ctx context.Context, name string) (domain.MapRecord, error)

	// List returns all records ordered by name
	List(ctx context.Context) ([]domain.MapRecord, error)

	// Delete removes the record registered under name
	Delete(ctx context.Context, name string) error
}
