package ports_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/mapgw/internal/ports"
)

func TestOWSRequest_EncodeKeepsOrder(t *testing.T) {
	req := ports.NewOWSRequest()
	req.AddParameter("map", "http://localhost/cgi-bin/mapserv?map=/srv/a b.map")
	req.AddParameter("SERVICE", "WMS")
	req.AddParameter("VERSION", "1.1.1")
	req.AddParameter("REQUEST", "GetCapabilities")

	assert.Equal(t,
		"map=http%3A%2F%2Flocalhost%2Fcgi-bin%2Fmapserv%3Fmap%3D%2Fsrv%2Fa+b.map&SERVICE=WMS&VERSION=1.1.1&REQUEST=GetCapabilities",
		req.Encode())
	assert.Equal(t, "WMS", req.Get("service"))
	assert.Len(t, req.Parameters(), 4)
}

func TestOWSRequest_Set(t *testing.T) {
	req := ports.NewOWSRequest()
	req.AddParameter("map", "a")
	req.AddParameter("SERVICE", "WMS")
	req.AddParameter("MAP", "b")

	req.Set("map", "/srv/world.map")
	assert.Equal(t, []ports.Param{
		{Name: "map", Value: "/srv/world.map"},
		{Name: "SERVICE", Value: "WMS"},
	}, req.Parameters())

	req.Set("mode", "map")
	assert.Equal(t, "map", req.Get("MODE"))
	assert.Len(t, req.Parameters(), 3)
}

func TestOutputBuffer_StripContentType(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		contentType string
		body        string
	}{
		{
			name:        "crlf header",
			raw:         "Content-Type: application/vnd.ogc.wms_xml; charset=UTF-8\r\n\r\n<?xml version='1.0'?><x/>",
			contentType: "application/vnd.ogc.wms_xml; charset=UTF-8",
			body:        "<?xml version='1.0'?><x/>",
		},
		{
			name:        "lf header with extra fields",
			raw:         "Content-Type: image/png\nCache-Control: max-age=60\n\nPNGDATA",
			contentType: "image/png",
			body:        "PNGDATA",
		},
		{
			name:        "no header",
			raw:         "<?xml version='1.0'?><x/>",
			contentType: "",
			body:        "<?xml version='1.0'?><x/>",
		},
		{
			name:        "warning before header",
			raw:         "Warning: something\n\nContent-Type: text/xml\r\n\r\n<?xml?>",
			contentType: "",
			body:        "Warning: something\n\nContent-Type: text/xml\r\n\r\n<?xml?>",
		},
		{
			name:        "header without terminator",
			raw:         "Content-Type: text/xml",
			contentType: "",
			body:        "Content-Type: text/xml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := ports.NewOutputBuffer([]byte(tt.raw))
			assert.Equal(t, tt.contentType, buf.StripContentType())
			assert.Equal(t, tt.body, buf.String())
		})
	}
}

func TestCGIOutput(t *testing.T) {
	buf := ports.CGIOutput("text/xml", []byte("<?xml?>"))
	assert.Equal(t, "Content-Type: text/xml\r\n\r\n<?xml?>", buf.String())
	assert.Equal(t, "text/xml", buf.StripContentType())
	assert.Equal(t, []byte("<?xml?>"), buf.Bytes())

	buf = ports.CGIOutput("", []byte("<?xml?>"))
	assert.Equal(t, "<?xml?>", buf.String())
	assert.Empty(t, buf.StripContentType())
}

func TestImage_Save(t *testing.T) {
	dir := t.TempDir()
	img := &ports.Image{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}

	path := filepath.Join(dir, "world")
	require.NoError(t, img.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Data, data)

	assert.Error(t, img.Save(filepath.Join(dir, "missing", "world")))
}

func TestResponse_ServeHTTP(t *testing.T) {
	resp := ports.NewResponse([]byte("<?xml?>"), "text/xml")
	rec := httptest.NewRecorder()
	resp.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "7", rec.Header().Get("Content-Length"))
	assert.Equal(t, "<?xml?>", rec.Body.String())
}
