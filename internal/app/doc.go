// Package app contains the gateway core: the Gateway type that bridges a
// host application to MapServer.
//
// Responsibilities
//   - Build the engine endpoint address from hostname and URI.
//   - Check, once, that the engine is reachable and that the local binding
//     is loaded when the engine runs on localhost.
//   - Bootstrap default mapfiles and templates, load and configure map handles.
//   - Dispatch WMS GetCapabilities and render images, wrapping the engine
//     output into responses a host can serve.
//
// Files
// - gateway.go
//   - Gateway, its options and the seven gateway operations.
//
// - writable_unix.go, writable_other.go
//   - Writable-directory checks used by SetStoragePath.
//
// Architectural notes
//   - Pure core logic: no HTTP server, no TLS, no logging here.
//   - Dependencies are injected via ports (ports.Engine, ports.BindingDetector,
//     ports.Prober); the composition root lives in adapters/outbound/compose.
//   - Every failure wraps a sentinel from internal/domain.
package app
