// Package domain contains the error taxonomy shared by the gateway core and
// its adapters.
//
// Hexagonal Architecture Boundaries:
//   - Domain NEVER imports from: internal/adapters, internal/ports, external SDKs
//   - Domain ONLY imports from: standard library
//   - Domain does NOT: perform I/O, call external APIs, depend on frameworks
//
// Every failure the gateway surfaces wraps exactly one of the sentinel errors
// declared in errors.go, so callers can branch with errors.Is and map the
// failure to an exit status or HTTP status with Code.
package domain
