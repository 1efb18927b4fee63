package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/mapgw/internal/adapters/outbound/inmemory"
	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

func TestInstrumentEngine(t *testing.T) {
	m := NewMetrics()
	e := InstrumentEngine(inmemory.NewEngine(inmemory.WithDrawError(assert.AnError)), m)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "world.map")
	require.NoError(t, os.WriteFile(path, []byte(mapfile.DefaultMapfile), 0o644))

	mp, err := e.LoadMap(ctx, path)
	require.NoError(t, err)
	_, err = e.Draw(ctx, mp)
	require.ErrorIs(t, err, assert.AnError)
	_, err = e.Dispatch(ctx, mp, ports.NewOWSRequest())
	require.NoError(t, err)
	_, err = e.Version(ctx)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.engineCalls.WithLabelValues("load", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.engineCalls.WithLabelValues("draw", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.engineCalls.WithLabelValues("dispatch", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.engineCalls.WithLabelValues("version", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.engineCalls.WithLabelValues("draw", "ok")))
}

func TestInstrumentEngine_NilMetrics(t *testing.T) {
	e := inmemory.NewEngine()
	assert.Same(t, e, InstrumentEngine(e, nil))
}

func TestMiddleware_RoutePattern(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/maps/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	for _, path := range []string{"/maps/world", "/maps/roads", "/healthz"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/maps/{name}", "GET", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/healthz", "GET", "200")))
}

func TestHandler_Exposition(t *testing.T) {
	m := NewMetrics()
	m.SetInstalled(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mapgw_engine_installed 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	m.SetInstalled(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.installed))
}
