package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
)

// Validate checks a loaded configuration.
//
// Ensures:
//   - mapserver.hostname is set and mapserver.uri is an absolute path
//   - mapserver.engine is one of auto, exec, cgi
//   - storage, image and listen settings are non-empty
//   - durations are not negative
//   - when spire.workload_socket is set, exactly one of
//     spire.expected_server_spiffe_id or spire.expected_server_trust_domain
//     is set and syntactically valid (using SDK validation)
func (c *FileConfig) Validate() error {
	if err := c.validateMapServer(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateSPIRE()
}

func (c *FileConfig) validateMapServer() error {
	if c.MapServer.Hostname == "" {
		return errors.New("mapserver.hostname must be set")
	}
	if strings.Contains(c.MapServer.Hostname, "/") {
		return fmt.Errorf("mapserver.hostname must not contain a scheme or path, got %q", c.MapServer.Hostname)
	}
	if !strings.HasPrefix(c.MapServer.URI, "/") {
		return fmt.Errorf("mapserver.uri must start with '/', got %q", c.MapServer.URI)
	}
	switch c.MapServer.Engine {
	case EngineAuto, EngineExec, EngineCGI:
	default:
		return fmt.Errorf("mapserver.engine must be one of %s, %s, %s, got %q", EngineAuto, EngineExec, EngineCGI, c.MapServer.Engine)
	}
	if c.MapServer.ProbeTimeout < 0 {
		return fmt.Errorf("mapserver.probe_timeout must be positive, got %v", c.MapServer.ProbeTimeout)
	}
	return nil
}

func (c *FileConfig) validatePaths() error {
	if c.Storage.Path == "" {
		return errors.New("storage.path must be set")
	}
	if c.Storage.Registry == "" {
		return errors.New("storage.registry must be set")
	}
	if c.Images.Path == "" {
		return errors.New("images.path must be set")
	}
	return nil
}

func (c *FileConfig) validateServer() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must be set")
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %v", c.Server.WriteTimeout)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be positive, got %v", c.Server.IdleTimeout)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *FileConfig) validateSPIRE() error {
	if !c.MTLSEnabled() {
		return nil
	}
	if !strings.HasPrefix(c.SPIRE.WorkloadSocket, "unix://") {
		return fmt.Errorf("spire.workload_socket must start with 'unix://', got %q", c.SPIRE.WorkloadSocket)
	}

	// Ensure exactly one server verification policy is set
	hasServerID := c.SPIRE.ExpectedServerSPIFFEID != ""
	hasTrustDomain := c.SPIRE.ExpectedServerTrustDomain != ""

	if !hasServerID && !hasTrustDomain {
		return errors.New("must set exactly one of spire.expected_server_spiffe_id or spire.expected_server_trust_domain")
	}
	if hasServerID && hasTrustDomain {
		return errors.New("cannot set both spire.expected_server_spiffe_id and spire.expected_server_trust_domain")
	}

	// Validate formats using SDK
	if hasServerID {
		if _, err := spiffeid.FromString(c.SPIRE.ExpectedServerSPIFFEID); err != nil {
			return fmt.Errorf("invalid spire.expected_server_spiffe_id %q: %w", c.SPIRE.ExpectedServerSPIFFEID, err)
		}
	}
	if hasTrustDomain {
		if _, err := spiffeid.TrustDomainFromString(c.SPIRE.ExpectedServerTrustDomain); err != nil {
			return fmt.Errorf("invalid spire.expected_server_trust_domain %q: %w", c.SPIRE.ExpectedServerTrustDomain, err)
		}
	}

	return nil
}
