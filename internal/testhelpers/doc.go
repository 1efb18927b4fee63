// Package testhelpers provides containerized MapServer infrastructure for
// integration testing.
//
// It uses testcontainers-go to run a mapserv CGI endpoint in Docker, so
// tests can exercise the CGI engine without a local MapServer install.
package testhelpers
