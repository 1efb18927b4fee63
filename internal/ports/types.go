package ports

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Param is a single OWS request parameter.
type Param struct {
	Name  string
	Value string
}

// OWSRequest is an ordered set of OGC Web Service request parameters.
type OWSRequest struct {
	params []Param
}

// NewOWSRequest returns an empty request.
func NewOWSRequest() *OWSRequest {
	return &OWSRequest{}
}

// AddParameter appends a parameter. Existing parameters with the same name are kept.
func (r *OWSRequest) AddParameter(name, value string) {
	r.params = append(r.params, Param{Name: name, Value: value})
}

// Set replaces every parameter called name (case-insensitive) with a single
// value at the position of the first one, or appends it.
func (r *OWSRequest) Set(name, value string) {
	out := r.params[:0:0]
	replaced := false
	for _, p := range r.params {
		if strings.EqualFold(p.Name, name) {
			if !replaced {
				out = append(out, Param{Name: p.Name, Value: value})
				replaced = true
			}
			continue
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, Param{Name: name, Value: value})
	}
	r.params = out
}

// Get returns the first value of the parameter called name (case-insensitive).
func (r *OWSRequest) Get(name string) string {
	for _, p := range r.params {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}
	return ""
}

// Parameters returns a copy of the parameters in insertion order.
func (r *OWSRequest) Parameters() []Param {
	return append([]Param(nil), r.params...)
}

// Encode returns the parameters as a URL query string in insertion order.
func (r *OWSRequest) Encode() string {
	var b strings.Builder
	for i, p := range r.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// OutputBuffer holds everything the engine wrote to its standard output
// while a request was dispatched: a CGI header block followed by the body.
type OutputBuffer struct {
	data []byte
}

// NewOutputBuffer wraps raw engine output.
func NewOutputBuffer(raw []byte) *OutputBuffer {
	return &OutputBuffer{data: raw}
}

// CGIOutput builds the buffer a CGI engine would have written for a response
// with the given content type and body. An empty content type writes the
// body alone.
func CGIOutput(contentType string, body []byte) *OutputBuffer {
	var buf bytes.Buffer
	if contentType != "" {
		fmt.Fprintf(&buf, "Content-Type: %s\r\n\r\n", contentType)
	}
	buf.Write(body)
	return &OutputBuffer{data: buf.Bytes()}
}

// Bytes returns the current buffer contents.
func (b *OutputBuffer) Bytes() []byte {
	return b.data
}

// String returns the current buffer contents as a string.
func (b *OutputBuffer) String() string {
	return string(b.data)
}

// StripContentType removes a leading CGI header block from the buffer and
// returns its Content-Type value. When the buffer does not start with a
// Content-Type header it is left untouched and "" is returned.
func (b *OutputBuffer) StripContentType() string {
	header, body, ok := splitCGIHeader(b.data)
	if !ok {
		return ""
	}
	b.data = body
	return header.Get("Content-Type")
}

// splitCGIHeader parses "Name: value" lines up to the first blank line.
func splitCGIHeader(data []byte) (textproto.MIMEHeader, []byte, bool) {
	end, sepLen := headerEnd(data)
	if end < 0 {
		return nil, nil, false
	}
	if !hasPrefixFold(data, "Content-Type:") {
		return nil, nil, false
	}
	head := data[:end]
	reader := textproto.NewReader(bufio.NewReader(bytes.NewReader(append(append([]byte(nil), head...), "\r\n\r\n"...))))
	header, err := reader.ReadMIMEHeader()
	if err != nil {
		return nil, nil, false
	}
	return header, data[end+sepLen:], true
}

func headerEnd(data []byte) (int, int) {
	crlf := bytes.Index(data, []byte("\r\n\r\n"))
	lf := bytes.Index(data, []byte("\n\n"))
	switch {
	case crlf >= 0 && (lf < 0 || crlf <= lf):
		return crlf, 4
	case lf >= 0:
		return lf, 2
	default:
		return -1, 0
	}
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && strings.EqualFold(string(b[:len(prefix)]), prefix)
}

// Image is a rendered map image.
type Image struct {
	Data        []byte
	ContentType string
}

// Save writes the image to path.
func (img *Image) Save(path string) error {
	if err := os.WriteFile(path, img.Data, 0o644); err != nil { // #nosec G306 - rendered images are served publicly
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// Response is an HTTP response produced by the gateway for its host.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse returns a 200 response with the given body and content type.
func NewResponse(body []byte, contentType string) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{StatusCode: http.StatusOK, Header: h, Body: body}
}

// ServeHTTP writes the response to w.
func (r *Response) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(r.Body)
}
