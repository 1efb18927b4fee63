// Package compose builds a fully wired gateway from configuration: the
// probe client (plain or SPIFFE mTLS), the engine adapter selected by
// mapserver.engine, engine metrics, and the SQLite map registry.
//
// It is the only place that knows about every concrete adapter; the CLI
// and the root mapgw package use it to bootstrap.
package compose
