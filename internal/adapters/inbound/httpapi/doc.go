// Package httpapi exposes the map gateway over HTTP.
//
// Routes:
//
//	GET    /healthz                  liveness
//	GET    /status                   installation status and engine version
//	GET    /maps                     registered maps
//	POST   /maps/{name}              create (or re-create) a map in the storage path
//	GET    /maps/{name}              registry record
//	DELETE /maps/{name}              forget a map; files are kept
//	GET    /maps/{name}/capabilities WMS 1.1.1 GetCapabilities document
//	GET    /maps/{name}/image        rendered map image
//	GET    /metrics                  Prometheus metrics, when enabled
//
// Read routes load the mapfile without writing it.
//
// Errors are JSON objects {"error": "...", "code": n} where code is the
// gateway status code of the failure, 0 when it has none.
package httpapi
