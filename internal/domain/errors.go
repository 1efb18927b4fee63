package domain

import (
	"errors"
)

// Sentinel errors for gateway failures
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context

var (
	// ErrStorageNotWritable indicates the parent directory of a storage path is not writable
	ErrStorageNotWritable = errors.New("storage path is not writable")

	// ErrEngineUnreachable indicates the MapServer endpoint did not answer the probe with 200 OK
	ErrEngineUnreachable = errors.New("mapserver not responding")

	// ErrNativeBindingMissing indicates the local MapServer binding is not available
	ErrNativeBindingMissing = errors.New("mapserver native binding is not available")

	// ErrConfigWriteFailed indicates a mapfile or template could not be written
	ErrConfigWriteFailed = errors.New("failed to write map configuration")

	// ErrDispatchFailed indicates the engine reported an error while dispatching an OWS request
	ErrDispatchFailed = errors.New("ows dispatch failed")

	// ErrRenderFailed indicates the engine failed to draw the map
	ErrRenderFailed = errors.New("map rendering failed")

	// ErrFileIOFailed indicates a rendered image could not be saved or read back
	ErrFileIOFailed = errors.New("image file i/o failed")

	// ErrMapLoadFailed indicates a mapfile could not be loaded into a map handle
	ErrMapLoadFailed = errors.New("failed to load mapfile")
)

// Registry errors. These carry no status code.
var (
	// ErrMapNotFound indicates no map is registered under the requested name
	ErrMapNotFound = errors.New("map not found")

	// ErrInvalidMapName indicates a map name or record failed validation
	ErrInvalidMapName = errors.New("invalid map name")
)

// codes are the numeric status codes reported for each sentinel.
// Codes 1-3 match the codes the gateway has always reported for storage,
// reachability, and binding failures.
var codes = []struct {
	err  error
	code int
}{
	{ErrStorageNotWritable, 1},
	{ErrEngineUnreachable, 2},
	{ErrNativeBindingMissing, 3},
	{ErrConfigWriteFailed, 4},
	{ErrDispatchFailed, 5},
	{ErrRenderFailed, 6},
	{ErrFileIOFailed, 7},
	{ErrMapLoadFailed, 8},
}

// Code returns the numeric status code of the first sentinel err wraps,
// or 0 when err does not wrap any gateway sentinel.
func Code(err error) int {
	if err == nil {
		return 0
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return 0
}
