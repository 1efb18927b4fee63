package httpapi

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer_Validation(t *testing.T) {
	_, err := NewHTTPServer(ServerConfig{Handler: http.NotFoundHandler()})
	assert.ErrorContains(t, err, "address is required")

	_, err = NewHTTPServer(ServerConfig{Address: "127.0.0.1:0"})
	assert.ErrorContains(t, err, "handler is required")
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	s, err := NewHTTPServer(ServerConfig{
		Address:     "127.0.0.1:0",
		Handler:     http.NotFoundHandler(),
		ReadTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, s.server.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, s.server.WriteTimeout)
	assert.Equal(t, defaultIdleTimeout, s.server.IdleTimeout)
	assert.Equal(t, "127.0.0.1:0", s.Addr())
}

func TestHTTPServer_StartStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s, err := NewHTTPServer(ServerConfig{Address: "127.0.0.1:0", Handler: handler})
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	_, port, err := net.SplitHostPort(s.Addr())
	require.NoError(t, err)
	assert.NotEqual(t, "0", port)

	resp, err := http.Get("http://" + s.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	_, err = http.Get("http://" + s.Addr() + "/")
	assert.Error(t, err)
}

func TestHTTPServer_StartBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s, err := NewHTTPServer(ServerConfig{Address: ln.Addr().String(), Handler: http.NotFoundHandler()})
	require.NoError(t, err)
	assert.ErrorContains(t, s.Start(context.Background()), "failed to listen")
}
