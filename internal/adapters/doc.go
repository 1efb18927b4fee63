// Package adapters contains infrastructure implementations of port interfaces.
//
// This package is the ADAPTER LAYER in hexagonal architecture - it implements
// the port interfaces defined in internal/ports using concrete technologies
// (mapserv CGI, HTTP clients, SQLite, go-spiffe). Adapters translate between
// the gateway in internal/app and external systems.
//
// Hexagonal Architecture Boundaries:
//   - Adapters implement: internal/ports interfaces
//   - Adapters import from: internal/domain, internal/ports, internal/mapfile, external SDKs
//   - Adapters are instantiated: by outbound/compose (composition root)
//   - internal/app: NEVER imports concrete adapters
//
// Adapter Organization
//
//   - inbound/httpapi       - chi HTTP API driving ports.MapService
//   - outbound/mapserv      - ports.Engine over a local mapserv binary or a remote CGI endpoint
//   - outbound/httpclient   - ports.Prober and CGI transport, plain or SPIFFE mTLS
//   - outbound/sqlitestore  - ports.MapRegistry on SQLite
//   - outbound/inmemory     - in-memory engine, prober, detector and registry for tests
//   - outbound/compose      - builds a gateway and its adapters from configuration
//
// Example Dependency Flow
//
//	cmd/mapgw (CLI)
//	    ↓ loads config, calls
//	compose.Build
//	    ↓ creates
//	app.Gateway + mapserv.HTTPEngine / mapserv.ExecEngine + sqlitestore.Store
//	    ↓ served by
//	httpapi.NewHandler
package adapters
