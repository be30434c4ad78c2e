// Package rawhttp implements the socket-level HTTP/1.1 prober used for
// request-smuggling detection. It bypasses the high-level HTTP client
// entirely: manual request bytes, a single deadline-bounded read, no
// connection pool reuse.
package rawhttp

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// RecvTimeout is the sole smuggling oracle: a server that doesn't respond
// within this window is presumed desynchronized.
const RecvTimeout = 7 * time.Second

// Variant names one of the two smuggling probe templates.
type Variant string

const (
	VariantCLTE Variant = "CL.TE"
	VariantTECL Variant = "TE.CL"
)

// Result is the outcome of one smuggling probe.
type Result struct {
	Variant      Variant
	TimedOut     bool
	BytesRead    int
	TransportErr error
}

// Probe opens a raw connection to host:port (TLS-wrapped, verification
// off, if useTLS), sends the variant's handcrafted request, and performs
// one Read of up to 4096 bytes, which returns on the first bytes received,
// on close, or when RecvTimeout elapses.
func Probe(host string, port string, useTLS bool, variant Variant) Result {
	addr := net.JoinHostPort(host, port)

	var conn net.Conn
	var err error
	if useTLS {
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	} else {
		conn, err = net.DialTimeout("tcp", addr, 10*time.Second)
	}
	if err != nil {
		return Result{Variant: variant, TransportErr: fmt.Errorf("rawhttp: dial %s: %w", addr, err)}
	}
	defer conn.Close()

	req := buildRequest(host, variant)
	if _, err := conn.Write([]byte(req)); err != nil {
		return Result{Variant: variant, TransportErr: fmt.Errorf("rawhttp: write: %w", err)}
	}

	if err := conn.SetReadDeadline(time.Now().Add(RecvTimeout)); err != nil {
		return Result{Variant: variant, TransportErr: fmt.Errorf("rawhttp: set deadline: %w", err)}
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return Result{Variant: variant, TimedOut: true}
		}
		// Connection closed or reset before any bytes arrived — not a
		// smuggling signal, just an ordinary transport error.
		return Result{Variant: variant, BytesRead: n, TransportErr: err}
	}
	return Result{Variant: variant, BytesRead: n}
}

// buildRequest returns the handcrafted CL.TE or TE.CL request body.
func buildRequest(host string, variant Variant) string {
	switch variant {
	case VariantCLTE:
		return "POST / HTTP/1.1\r\n" +
			"Host: " + host + "\r\n" +
			"Content-Length: 6\r\n" +
			"Transfer-Encoding: chunked\r\n" +
			"Connection: keep-alive\r\n" +
			"\r\n" +
			"0\r\n\r\n"
	case VariantTECL:
		return "POST / HTTP/1.1\r\n" +
			"Host: " + host + "\r\n" +
			"Content-Length: 4\r\n" +
			"Transfer-Encoding: chunked\r\n" +
			"Connection: keep-alive\r\n" +
			"\r\n" +
			"a\r\n"
	default:
		return ""
	}
}
