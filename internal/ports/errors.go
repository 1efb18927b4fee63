package ports

import "errors"

// Infrastructure errors for the adapter layer.
//
// These errors describe adapter concerns and are separate from the gateway
// taxonomy in internal/domain, which the application wraps them into.

// ErrEngineOutput indicates the engine produced output the adapter could not interpret,
// for example a CGI response without a header block.
var ErrEngineOutput = errors.New("unexpected engine output")

// ErrEngineStatus indicates a remote engine answered with a non-success HTTP status.
var ErrEngineStatus = errors.New("engine returned error status")
