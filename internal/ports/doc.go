// Package ports defines the inbound and outbound ports (interfaces and types)
// used to decouple the gateway core from MapServer and the host application.
//
// Purpose
// -------
// Ports are the boundary between the application (internal/app) and the
// infrastructure (adapters). Interfaces represent the contracts that
// adapters must satisfy. Keep these interfaces stable and focused; adapters
// implement concrete behavior on top of the mapserv binary, a CGI HTTP
// endpoint, or in-memory doubles.
//
// Files and responsibilities
// --------------------------
//   - inbound.go
//   - MapService, the operations the gateway offers to drivers such as the
//     HTTP API and the CLI.
//   - outbound.go
//   - Engine, the narrow call interface onto MapServer, plus
//     BindingDetector and Prober used by the installation check.
//   - Each interface includes an "Error Contract" in comments describing
//     what implementations return.
//   - types.go
//   - Values crossing the boundary: OWSRequest, OutputBuffer, Image.
//
// notes
// ------------
//   - Engines never decide gateway error codes. The application wraps engine
//     failures into the sentinels of internal/domain.
//   - Map handles are *mapfile.Map values; the mapfile package has no
//     dependency on ports or adapters.
package ports
