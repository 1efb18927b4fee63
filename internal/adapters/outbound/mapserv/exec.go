package mapserv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

// DefaultBinary is the mapserv executable looked up on PATH.
const DefaultBinary = "mapserv"

// ExecEngine drives a local mapserv binary through the CGI interface.
type ExecEngine struct {
	mapfiles
	binary string
	env    []string
}

// ExecOption configures an ExecEngine.
type ExecOption func(*ExecEngine)

// WithEnv adds KEY=value pairs to the environment of every mapserv run,
// for example MS_ERRORFILE or PROJ_DATA.
func WithEnv(env ...string) ExecOption {
	return func(e *ExecEngine) { e.env = append(e.env, env...) }
}

// NewExecEngine returns an engine running binary. An empty binary uses
// DefaultBinary.
func NewExecEngine(binary string, opts ...ExecOption) *ExecEngine {
	if binary == "" {
		binary = DefaultBinary
	}
	e := &ExecEngine{binary: binary}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the executable this engine runs.
func (e *ExecEngine) Binary() string {
	return e.binary
}

// Draw renders m with mode=map and returns the image mapserv wrote.
func (e *ExecEngine) Draw(ctx context.Context, m *mapfile.Map) (*ports.Image, error) {
	path, cleanup, err := materialize(m)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	raw, err := e.cgi(ctx, drawQuery(path))
	if err != nil {
		return nil, err
	}
	return imageFromOutput(ports.NewOutputBuffer(raw))
}

// Dispatch runs req against m. The request's map parameter is replaced by
// the materialized mapfile.
func (e *ExecEngine) Dispatch(ctx context.Context, m *mapfile.Map, req *ports.OWSRequest) (*ports.OutputBuffer, error) {
	path, cleanup, err := materialize(m)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	raw, err := e.cgi(ctx, bindMap(req, path).Encode())
	if err != nil {
		return nil, err
	}
	if err := checkMessage(raw); err != nil {
		return nil, err
	}
	return ports.NewOutputBuffer(raw), nil
}

// Version runs `mapserv -v`.
func (e *ExecEngine) Version(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, e.binary, "-v") // #nosec G204 - binary comes from configuration
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrNativeBindingMissing, e.binary, err)
		}
		return 0, fmt.Errorf("%s -v: %w", e.binary, err)
	}
	return ParseVersion(string(out))
}

// cgi runs mapserv once as a GET request with the given query string.
func (e *ExecEngine) cgi(ctx context.Context, query string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.binary) // #nosec G204 - binary comes from configuration
	cmd.Env = append(os.Environ(), e.env...)
	cmd.Env = append(cmd.Env,
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_PROTOCOL=HTTP/1.1",
		"REQUEST_METHOD=GET",
		"QUERY_STRING="+query,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrNativeBindingMissing, e.binary, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", e.binary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", e.binary, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: %s wrote nothing", ports.ErrEngineOutput, e.binary)
	}
	return stdout.Bytes(), nil
}

var _ ports.Engine = (*ExecEngine)(nil)
