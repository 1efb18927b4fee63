// Package httpclient provides the HTTP client used to reach the MapServer
// CGI endpoint, either in plain HTTP or over SPIFFE mTLS.
//
// # Usage
//
// Plain HTTP, as used for the installation probe:
//
//	client := httpclient.New(10 * time.Second)
//	status, err := client.Probe(ctx, "http://localhost/cgi-bin/mapserv")
//
// mTLS against an engine fronted by a SPIFFE-aware proxy:
//
//	authorizer, err := httpclient.Authorizer("spiffe://example.org/mapserver", "")
//	if err != nil {
//	    return err
//	}
//	client, err := httpclient.NewSPIFFE(ctx, httpclient.ClientConfig{
//	    X509SourceProvider: &httpclient.WorkloadAPISourceProvider{
//	        SocketPath: "unix:///tmp/spire-agent/public/api.sock",
//	    },
//	    ServerAuthorizer: authorizer,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// The server is verified by SPIFFE ID rather than DNS name, so "localhost"
// or an IP address in the URL is fine.
//
// # Resource Management
//
// Close stops SVID rotation and closes idle connections. The client is
// safe for concurrent use.
package httpclient
