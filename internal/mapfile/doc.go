// Package mapfile models MapServer mapfiles as editable map handles.
//
// A mapfile is a block-structured text document: a top-level MAP block
// containing directives (NAME "world"), nested blocks (WEB ... END) and
// key/value blocks (METADATA "wms_title" "World" END). The package parses
// that document into a tree of Nodes, exposes the handful of accessors the
// gateway needs on the Map type, and writes the tree back out.
//
// The parser is deliberately structural: it does not know the arity of each
// MapServer keyword. A known block keyword opens a block when nothing else
// follows it on the line, or when the line is closed by END, which covers
// one-line blocks such as
//
//	PROJECTION "init=epsg:4326" END
//
// while keeping directives like SYMBOL "circle" inside STYLE as statements.
//
// Comments are dropped on parse. Quoting of every value is preserved.
package mapfile
