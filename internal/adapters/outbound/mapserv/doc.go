// Package mapserv provides ports.Engine implementations backed by the
// MapServer mapserv CGI program.
//
// ExecEngine runs a local mapserv binary with a CGI environment, which is
// the "native binding" of the gateway. HTTPEngine calls a remote mapserv
// CGI endpoint over HTTP and expects mapfiles to live on storage shared with
// that host.
//
// Both engines write in-memory map changes to a temporary mapfile next to
// the original before every draw or dispatch, so relative SHAPEPATH, FONTSET
// and SYMBOLSET entries keep resolving. The temporary file is removed when
// the call returns.
package mapserv
