package rawhttp

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProbeNoTimeoutAgainstRespondingServer exercises the oracle against a
// plain TCP listener that answers immediately on both variants — no
// timeout should be observed.
func TestProbeNoTimeoutAgainstRespondingServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				c.Read(buf)
				c.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))
			}(conn)
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	res := Probe(host, port, false, VariantCLTE)
	assert.False(t, res.TimedOut)
}

// TestProbeTimesOutAgainstHangingServer exercises the CL.TE oracle against
// a server that accepts the connection and never responds.
func TestProbeTimesOutAgainstHangingServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(RecvTimeout + 2*time.Second)
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	start := time.Now()
	res := Probe(host, port, false, VariantCLTE)
	elapsed := time.Since(start)

	assert.True(t, res.TimedOut)
	assert.Less(t, elapsed, RecvTimeout+5*time.Second)
}

func TestBuildRequestVariants(t *testing.T) {
	clte := buildRequest("example.com", VariantCLTE)
	assert.Contains(t, clte, "Content-Length: 6")
	assert.Contains(t, clte, "Transfer-Encoding: chunked")

	tecl := buildRequest("example.com", VariantTECL)
	assert.Contains(t, tecl, "Content-Length: 4")
}

func TestProbeDialFailureIsTransportError(t *testing.T) {
	res := Probe("127.0.0.1", strconv.Itoa(1), false, VariantCLTE)
	assert.Error(t, res.TransportErr)
	assert.False(t, res.TimedOut)
}
