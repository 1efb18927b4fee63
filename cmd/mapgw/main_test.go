package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/mapgw/internal/adapters/outbound/inmemory"
	"github.com/sufield/mapgw/internal/domain"
)

// fakeCGI answers like a mapserv CGI endpoint.
func fakeCGI(t *testing.T, probeStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("mode") == "map":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(inmemory.PNGHeader)
		case q.Get("REQUEST") == "GetCapabilities":
			w.Header().Set("Content-Type", "application/vnd.ogc.wms_xml")
			_, _ = w.Write([]byte(inmemory.CapabilitiesXML))
		default:
			w.WriteHeader(probeStatus)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, engineURL string) (path, dir string) {
	t.Helper()
	u, err := url.Parse(engineURL)
	require.NoError(t, err)

	dir = t.TempDir()
	content := fmt.Sprintf(`mapserver:
  hostname: %s
  uri: /cgi-bin/mapserv
  engine: cgi
  probe_timeout: 2s
storage:
  path: %s
images:
  path: %s
  url: /images/
`, u.Host, filepath.Join(dir, "userdata"), dir)
	path = filepath.Join(dir, "mapgw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path, dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mapgw dev (commit: none, built: unknown)\n", out)

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "dev", v["version"])
}

func TestValidateCommand(t *testing.T) {
	path, _ := writeConfig(t, "http://127.0.0.1:8081")
	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "http://127.0.0.1:8081/cgi-bin/mapserv (engine cgi)")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("mapserver:\n  engine: mapscript\n"), 0o600))
	_, err = run(t, "validate", bad)
	assert.ErrorContains(t, err, "mapserver.engine must be one of")

	_, err = run(t, "validate")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	srv := fakeCGI(t, http.StatusOK)
	path, _ := writeConfig(t, srv.URL)

	out, err := run(t, "check", "--config", path, "--json")
	require.NoError(t, err)

	var res checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Installed)
	assert.Equal(t, "cgi", res.Engine)
	assert.Equal(t, srv.URL+"/cgi-bin/mapserv", res.Endpoint)
	assert.Zero(t, res.Version)
}

func TestCheckCommand_NotInstalled(t *testing.T) {
	srv := fakeCGI(t, http.StatusInternalServerError)
	path, _ := writeConfig(t, srv.URL)

	out, err := run(t, "check", "--config", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEngineUnreachable)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, "Installed: false")
}

func TestMapCommands(t *testing.T) {
	srv := fakeCGI(t, http.StatusOK)
	path, dir := writeConfig(t, srv.URL)

	out, err := run(t, "map", "create", "world", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created map world")
	assert.FileExists(t, filepath.Join(dir, "userdata", "world.map"))
	assert.FileExists(t, filepath.Join(dir, "userdata", "world.html"))

	out, err = run(t, "map", "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "world")
	assert.Contains(t, out, filepath.Join(dir, "userdata", "world.map"))

	out, err = run(t, "map", "capabilities", "world", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, inmemory.CapabilitiesXML, out)

	out, err = run(t, "map", "render", "world", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "image/png")
	data, err := os.ReadFile(filepath.Join(dir, "world"))
	require.NoError(t, err)
	assert.Equal(t, inmemory.PNGHeader, data)

	copyPath := filepath.Join(dir, "copy.png")
	_, err = run(t, "map", "render", "world", "--config", path, "-o", copyPath)
	require.NoError(t, err)
	assert.FileExists(t, copyPath)
}

func TestMapCommands_Errors(t *testing.T) {
	srv := fakeCGI(t, http.StatusOK)
	path, _ := writeConfig(t, srv.URL)

	_, err := run(t, "map", "create", "bad/name", "--config", path)
	assert.ErrorIs(t, err, domain.ErrInvalidMapName)

	_, err = run(t, "map", "capabilities", "nowhere", "--config", path)
	assert.ErrorIs(t, err, domain.ErrMapNotFound)

	out, err := run(t, "map", "list", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "No maps registered"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("plain")))
	assert.Equal(t, 3, exitCode(fmt.Errorf("wrap: %w", domain.ErrNativeBindingMissing)))
	assert.Equal(t, 7, exitCode(domain.ErrFileIOFailed))
}
