package testutil

import (
	"net/http"
	"testing"
	"time"
)

// WaitForHealthy polls http://addr/healthz until it answers 200 OK.
// The test fails if that does not happen within timeout.
func WaitForHealthy(tb testing.TB, addr string, timeout time.Duration) {
	tb.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				client.CloseIdleConnections()
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	client.CloseIdleConnections()
	tb.Fatalf("gateway at %s not healthy after %v", addr, timeout)
}
