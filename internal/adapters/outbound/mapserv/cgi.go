package mapserv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

// messageTitle marks the HTML error page mapserv writes instead of a result.
const messageTitle = "<TITLE>MapServer Message</TITLE>"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// mapfiles implements the load and save half of ports.Engine on the local
// filesystem.
type mapfiles struct{}

func (mapfiles) LoadMap(_ context.Context, path string) (*mapfile.Map, error) {
	return mapfile.Load(path)
}

func (mapfiles) SaveMap(_ context.Context, m *mapfile.Map, path string) error {
	return m.Save(path)
}

// materialize writes m to a temporary mapfile beside the file it was loaded
// from. The returned func removes it.
func materialize(m *mapfile.Map) (string, func(), error) {
	dir := os.TempDir()
	if p := m.Path(); p != "" {
		dir = filepath.Dir(p)
	}
	f, err := os.CreateTemp(dir, ".mapgw-*.map")
	if err != nil {
		return "", nil, fmt.Errorf("materialize mapfile: %w", err)
	}
	name := f.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := m.WriteTo(f); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("materialize mapfile: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("materialize mapfile: %w", err)
	}
	return name, cleanup, nil
}

// bindMap copies req with its map parameter pointing at path.
func bindMap(req *ports.OWSRequest, path string) *ports.OWSRequest {
	bound := ports.NewOWSRequest()
	for _, p := range req.Parameters() {
		bound.AddParameter(p.Name, p.Value)
	}
	bound.Set("map", path)
	return bound
}

// drawQuery is the CGI query that renders path as a single image.
func drawQuery(path string) string {
	req := ports.NewOWSRequest()
	req.AddParameter("map", path)
	req.AddParameter("mode", "map")
	return req.Encode()
}

// checkMessage fails when raw is a mapserv error page.
func checkMessage(raw []byte) error {
	if !bytes.Contains(raw, []byte(messageTitle)) {
		return nil
	}
	return fmt.Errorf("%w: %s", ports.ErrEngineOutput, messageText(raw))
}

// messageText extracts the error lines of a mapserv error page.
func messageText(raw []byte) string {
	body := raw
	if i := bytes.Index(body, []byte("<BODY")); i >= 0 {
		body = body[i:]
	}
	text := tagPattern.ReplaceAllString(string(body), " ")
	text = strings.NewReplacer("&quot;", `"`, "&lt;", "<", "&gt;", ">", "&amp;", "&").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// imageFromOutput splits a mapserv image response into an Image.
func imageFromOutput(out *ports.OutputBuffer) (*ports.Image, error) {
	if err := checkMessage(out.Bytes()); err != nil {
		return nil, err
	}
	contentType := out.StripContentType()
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: expected an image, got content type %q", ports.ErrEngineOutput, contentType)
	}
	return &ports.Image{Data: out.Bytes(), ContentType: contentType}, nil
}
