// Package inmemory contains in-memory implementations of the outbound ports.
//
// Purpose
// -------
// These adapters let the gateway run completely in-process without a
// MapServer installation. They are intended for tests and local development
// and are not suitable for production use.
//
// Files and responsibilities
// --------------------------
//   - engine.go
//     Engine: implements `ports.Engine`. Loads and saves real mapfiles through
//     the mapfile package, returns canned dispatch output and image bytes, and
//     records every request and drawn map for assertions. Failures can be
//     injected per operation.
//
//   - probe.go
//     Prober: implements `ports.Prober` with a fixed status and counts calls.
//     Detector: implements `ports.BindingDetector` with a fixed answer.
//
//   - registry.go
//     Registry: implements `ports.MapRegistry` on a map guarded by a mutex.
package inmemory
