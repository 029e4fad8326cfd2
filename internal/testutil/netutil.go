package testutil

import (
	"net"
	"testing"
)

// ListenTCP opens a loopback listener on a random port, closed at test
// cleanup, and returns it with its "host:port" address.
func ListenTCP(tb testing.TB) (net.Listener, string) {
	tb.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("listening on loopback: %v", err)
	}
	tb.Cleanup(func() { _ = ln.Close() })

	return ln, ln.Addr().String()
}

// WebsocketURL returns the gateway endpoint for a "host:port" address.
func WebsocketURL(addr string) string {
	return "ws://" + addr + "/ws"
}
