package mapfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoMapBlock is returned when a document has no top-level MAP block.
var ErrNoMapBlock = errors.New("mapfile: no MAP block")

// Map is an in-memory handle on a parsed mapfile.
//
// A Map is not safe for concurrent mutation.
type Map struct {
	nodes []*Node
	root  *Node
	path  string
}

// Parse reads a mapfile document from r.
func Parse(r io.Reader) (*Map, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mapfile: read: %w", err)
	}
	return ParseString(string(src))
}

// ParseString parses a mapfile document held in src.
func ParseString(src string) (*Map, error) {
	nodes, err := parse(src)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Block && n.Is("MAP") {
			return &Map{nodes: nodes, root: n}, nil
		}
	}
	return nil, ErrNoMapBlock
}

// Load parses the mapfile at path. The returned Map remembers path.
func Load(path string) (*Map, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - mapfile paths come from the gateway operator
	if err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	m, err := ParseString(string(data))
	if err != nil {
		return nil, err
	}
	m.path = path
	return m, nil
}

// Path returns the file the map was loaded from or last saved to.
func (m *Map) Path() string {
	return m.path
}

// Root returns the MAP block.
func (m *Map) Root() *Node {
	return m.root
}

// Name returns the value of the MAP NAME directive.
func (m *Map) Name() string {
	return directive(m.root, "NAME")
}

// SetName sets the MAP NAME directive.
func (m *Map) SetName(name string) {
	setDirective(m.root, "NAME", Quoted(name))
}

// Template returns the WEB TEMPLATE directive.
func (m *Map) Template() string {
	if web := m.root.Find("WEB"); web != nil {
		return directive(web, "TEMPLATE")
	}
	return ""
}

// SetTemplate sets the WEB TEMPLATE directive, creating the WEB block if needed.
func (m *Map) SetTemplate(path string) {
	setDirective(m.web(), "TEMPLATE", Quoted(path))
}

// ImagePath returns the WEB IMAGEPATH directive.
func (m *Map) ImagePath() string {
	if web := m.root.Find("WEB"); web != nil {
		return directive(web, "IMAGEPATH")
	}
	return ""
}

// SetImagePath sets the WEB IMAGEPATH directive.
func (m *Map) SetImagePath(path string) {
	setDirective(m.web(), "IMAGEPATH", Quoted(path))
}

// ImageURL returns the WEB IMAGEURL directive.
func (m *Map) ImageURL() string {
	if web := m.root.Find("WEB"); web != nil {
		return directive(web, "IMAGEURL")
	}
	return ""
}

// SetImageURL sets the WEB IMAGEURL directive.
func (m *Map) SetImageURL(url string) {
	setDirective(m.web(), "IMAGEURL", Quoted(url))
}

// MetaData returns the WEB METADATA value stored under key. Keys compare
// case-insensitively and the last duplicate wins, as in MapServer.
func (m *Map) MetaData(key string) string {
	web := m.root.Find("WEB")
	if web == nil {
		return ""
	}
	md := web.Find("METADATA")
	if md == nil {
		return ""
	}
	var value string
	for _, entry := range md.Children {
		if strings.EqualFold(entry.Key.Text, key) && len(entry.Args) > 0 {
			value = entry.Args[0].Text
		}
	}
	return value
}

// SetMetaData stores value under key in the WEB METADATA block. Every
// existing entry for key is updated; a new entry is appended otherwise.
func (m *Map) SetMetaData(key, value string) {
	web := m.web()
	md := web.Find("METADATA")
	if md == nil {
		md = &Node{Key: Bare("METADATA"), Block: true}
		web.Children = append([]*Node{md}, web.Children...)
	}
	found := false
	for _, entry := range md.Children {
		if strings.EqualFold(entry.Key.Text, key) {
			entry.Args = []Token{Quoted(value)}
			found = true
		}
	}
	if !found {
		md.Children = append(md.Children, &Node{Key: Quoted(key), Args: []Token{Quoted(value)}})
	}
}

// WriteTo writes the mapfile text to w.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	writeNodes(&buf, m.nodes, 0)
	return buf.WriteTo(w)
}

// Bytes returns the mapfile text.
func (m *Map) Bytes() []byte {
	var buf bytes.Buffer
	writeNodes(&buf, m.nodes, 0)
	return buf.Bytes()
}

// Save writes the mapfile to path and remembers it as the map's path.
// The file is replaced atomically: readers see the old or the new
// document, never a partial one.
func (m *Map) Save(path string) error {
	if err := writeAtomic(path, m.Bytes()); err != nil {
		return fmt.Errorf("mapfile: %w", err)
	}
	m.path = path
	return nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// over path.
func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil { // #nosec G302 - mapfiles are read by the mapserv process
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	c := &Map{path: m.path}
	for _, n := range m.nodes {
		cn := cloneNode(n)
		c.nodes = append(c.nodes, cn)
		if n == m.root {
			c.root = cn
		}
	}
	return c
}

func (m *Map) web() *Node {
	web := m.root.Find("WEB")
	if web == nil {
		web = &Node{Key: Bare("WEB"), Block: true}
		m.root.Children = append(m.root.Children, web)
	}
	return web
}

func directive(block *Node, kw string) string {
	n := block.Find(kw)
	if n == nil || n.Block || len(n.Args) == 0 {
		return ""
	}
	return n.Args[0].Text
}

func setDirective(block *Node, kw string, value Token) {
	if n := block.Find(kw); n != nil && !n.Block {
		n.Args = []Token{value}
		return
	}
	block.Children = append(block.Children, &Node{Key: Bare(kw), Args: []Token{value}})
}

func cloneNode(n *Node) *Node {
	c := &Node{
		Key:   n.Key,
		Args:  append([]Token(nil), n.Args...),
		Block: n.Block,
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, cloneNode(child))
	}
	return c
}

func writeNodes(buf *bytes.Buffer, nodes []*Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		buf.WriteString(indent)
		buf.WriteString(n.Key.String())
		for _, a := range n.Args {
			buf.WriteByte(' ')
			buf.WriteString(a.String())
		}
		buf.WriteByte('\n')
		if n.Block {
			writeNodes(buf, n.Children, depth+1)
			buf.WriteString(indent)
			buf.WriteString("END\n")
		}
	}
}
