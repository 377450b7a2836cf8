// Package network provides pre-configured HTTP clients for talking to the target site and the publish sink.
//
// TLSClient dials https origins with uTLS using Chrome's Client Hello so that sites
// fronted by anti-bot challenges treat the static session like a browser.
// It prefers an HTTP/2 connection and falls back to a forced HTTP/1.1 handshake
// when h2 negotiation fails.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// DefaultTLSTimeout bounds a single request made by TLSClient.
const DefaultTLSTimeout = 30 * time.Second

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

// h1Transport serves plain http origins and https origins that refuse h2.
var h1Transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
	MaxIdleConnsPerHost:   16,
	IdleConnTimeout:       30 * time.Second,
	ResponseHeaderTimeout: 30 * time.Second,
}

// TLSClient performs requests with a Chrome TLS fingerprint.
type TLSClient struct {
	Timeout time.Duration
}

// NewTLSClient returns a client whose requests are bounded by timeout (DefaultTLSTimeout when zero).
func NewTLSClient(timeout time.Duration) *TLSClient {
	if timeout <= 0 {
		timeout = DefaultTLSTimeout
	}
	return &TLSClient{Timeout: timeout}
}

// Do sends req, trying HTTP/2 first for https origins.
// Requests with a body are only retried over HTTP/1.1 when the body can be replayed.
func (c *TLSClient) Do(req *http.Request) (*http.Response, error) {
	h1 := &http.Client{Timeout: c.Timeout, Transport: h1Transport}
	if req.URL.Scheme != "https" {
		return h1.Do(req)
	}

	h2 := &http.Client{Timeout: c.Timeout, Transport: getH2Transport()}
	resp, err := h2.Do(req)
	if err == nil {
		return resp, nil
	}
	if req.Context().Err() != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		retry.Body = body
	}

	resp, err = h1.Do(retry)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// A nil protos advertises the browser's natural ALPN list (h2 and http/1.1).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: DefaultTLSTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	cfg := &utls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	tlsConn := utls.UClient(conn, cfg, utls.HelloChrome_120)

	if len(protos) > 0 {
		spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("client hello spec: %w", err)
		}
		for _, ext := range spec.Extensions {
			if alpn, ok := ext.(*utls.ALPNExtension); ok {
				alpn.AlpnProtocols = protos
			}
		}

		tlsConn = utls.UClient(conn, cfg, utls.HelloCustom)
		if err := tlsConn.ApplyPreset(&spec); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply client hello: %w", err)
		}
	}

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
