package testhelpers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMapServerImage serves mapserv as CGI on port 8080 at "/".
	DefaultMapServerImage = "camptocamp/mapserver:8.0"

	mapServerPort = "8080/tcp"
)

// MapServerContainer is a running MapServer CGI container.
type MapServerContainer struct {
	t *testing.T

	// Container is the running container.
	Container testcontainers.Container

	// Host is host:port of the mapped CGI port, usable as mapserver.hostname.
	Host string

	// URI is the CGI path inside the container.
	URI string

	// DataDir is bind mounted at the same path inside the container, so
	// mapfile paths created on the host resolve in mapserv too.
	DataDir string
}

// Endpoint returns the CGI URL.
func (c *MapServerContainer) Endpoint() string {
	return "http://" + c.Host + c.URI
}

// SetupMapServerContainer starts a MapServer container sharing a fresh
// temporary directory with the host.
//
// Requirements:
//   - Docker daemon running and accessible
//   - Docker image DefaultMapServerImage, or MAPGW_TEST_MAPSERVER_IMAGE
//
// The container is terminated when the test completes via t.Cleanup().
//
// Skip test if Docker is not available:
//
//	func TestMyFeature(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping container-based test in short mode")
//	    }
//	    ms := testhelpers.SetupMapServerContainer(t)
//	    // ... test code ...
//	}
func SetupMapServerContainer(t *testing.T) *MapServerContainer {
	t.Helper()

	ctx := context.Background()

	image := os.Getenv("MAPGW_TEST_MAPSERVER_IMAGE")
	if image == "" {
		image = DefaultMapServerImage
	}

	// The temp dir must be world readable for the CGI user in the container.
	dataDir, err := os.MkdirTemp("", "mapgw-container-*")
	if err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dataDir) })
	if err := os.Chmod(dataDir, 0o777); err != nil { // #nosec G302 - shared with the container user
		t.Fatalf("Failed to open data dir permissions: %v", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{mapServerPort},
		Mounts: testcontainers.Mounts(
			testcontainers.BindMount(dataDir, testcontainers.ContainerMountTarget(dataDir)),
		),
		WaitingFor: wait.ForHTTP("/").
			WithPort(mapServerPort).
			WithStatusCodeMatcher(func(status int) bool { return status < http.StatusInternalServerError }).
			WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start MapServer container: %v", err)
	}

	mc := &MapServerContainer{
		t:         t,
		Container: container,
		URI:       "/",
		DataDir:   dataDir,
	}
	t.Cleanup(mc.terminate)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, mapServerPort)
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}
	mc.Host = fmt.Sprintf("%s:%s", host, port.Port())

	t.Logf("MapServer container ready at %s", mc.Endpoint())
	return mc
}

func (c *MapServerContainer) terminate() {
	if c.Container == nil {
		return
	}
	c.t.Log("Terminating MapServer container...")
	if err := c.Container.Terminate(context.Background()); err != nil {
		c.t.Logf("Warning: failed to terminate MapServer container: %v", err)
	}
}
