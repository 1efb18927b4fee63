package config

import "time"

// MapServerSection describes how the gateway reaches MapServer.
type MapServerSection struct {
	// Hostname of the mapserv CGI endpoint. "localhost" also requires the
	// local mapserv binary to be present.
	Hostname string `yaml:"hostname"`

	// URI is the CGI path on Hostname, e.g. "/cgi-bin/mapserv".
	URI string `yaml:"uri"`

	// Engine selects the engine adapter: "exec" runs the local binary,
	// "cgi" calls the endpoint over HTTP, "auto" picks exec when the binary
	// is installed.
	Engine string `yaml:"engine"`

	// Binary is the mapserv executable name or path.
	Binary string `yaml:"binary"`

	// ProbeTimeout bounds the installation probe and CGI requests.
	// Go duration format: "10s", "1m".
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// StorageSection configures where generated map configuration lives.
type StorageSection struct {
	// Path is the directory mapfiles and templates are created in.
	Path string `yaml:"path"`

	// Registry is the SQLite file recording created maps.
	// Defaults to <path>/mapgw.db.
	Registry string `yaml:"registry"`
}

// ImagesSection configures rendered image output.
type ImagesSection struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// ServerSection contains HTTP service configuration.
type ServerSection struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SPIRESection enables SPIFFE mTLS towards a remote engine. Leaving
// WorkloadSocket empty keeps plain HTTP.
type SPIRESection struct {
	// WorkloadSocket is the path to the SPIRE Agent's Workload API socket.
	// Example: "unix:///tmp/spire-agent/public/api.sock"
	WorkloadSocket string `yaml:"workload_socket"`

	ExpectedServerSPIFFEID    string `yaml:"expected_server_spiffe_id"`
	ExpectedServerTrustDomain string `yaml:"expected_server_trust_domain"`
}

// FileConfig represents a mapgw configuration file.
//
// The config format is versioned to support future evolution without breaking changes.
type FileConfig struct {
	// Version is the config file format version (optional, currently always 1)
	Version int `yaml:"version,omitempty"`

	MapServer MapServerSection `yaml:"mapserver"`
	Storage   StorageSection   `yaml:"storage"`
	Images    ImagesSection    `yaml:"images"`
	Server    ServerSection    `yaml:"server"`
	SPIRE     SPIRESection     `yaml:"spire"`

	// Debug enables the debug logger.
	Debug bool `yaml:"debug"`
	// DebugFile, when set, receives debug output instead of the standard log.
	DebugFile string `yaml:"debug_file,omitempty"`
}

// MTLSEnabled reports whether engine traffic goes through SPIFFE mTLS.
func (c *FileConfig) MTLSEnabled() bool {
	return c.SPIRE.WorkloadSocket != ""
}
