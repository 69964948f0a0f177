//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"google.golang.org/grpc"

	coreGrpc "github.com/msto63/sexpad/pkg/core/grpc"
)

// TestConfig points at a running `sexpad serve`
type TestConfig struct {
	HTTPURL  string
	GRPCAddr string
}

func getTestConfig() TestConfig {
	return TestConfig{
		HTTPURL:  getEnv("TEST_SEXPAD_URL", "http://127.0.0.1:8080"),
		GRPCAddr: getEnv("TEST_SEXPAD_GRPC_ADDR", "127.0.0.1:9090"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// skipIfServiceUnavailable skips the test if the server is not reachable
func skipIfServiceUnavailable(t *testing.T, addr string, what string) {
	t.Helper()
	if !isServiceAvailable(addr) {
		t.Skipf("Skipping: %s not available at %s", what, addr)
	}
}

// isServiceAvailable checks if a TCP connection can be established
func isServiceAvailable(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// hostOf returns host:port of an http URL
func hostOf(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", raw, err)
	}
	return u.Host
}

// dialGRPC creates a client connection closed at test cleanup
func dialGRPC(t *testing.T, addr string) *grpc.ClientConn {
	t.Helper()

	conn, err := coreGrpc.DialSimple(addr)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", addr, err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

// testContext returns a context with timeout for tests
func testContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// postJSON sends body as JSON and decodes the response into out
func postJSON(t *testing.T, url string, body, out interface{}) int {
	t.Helper()

	data, err := json.Marshal(body)
	requireNoError(t, err, "marshal request")

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	requireNoError(t, err, fmt.Sprintf("POST %s", url))
	defer resp.Body.Close()

	if out != nil {
		requireNoError(t, json.NewDecoder(resp.Body).Decode(out), "decode response")
	}
	return resp.StatusCode
}

// getJSON fetches url and decodes the response into out
func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	requireNoError(t, err, fmt.Sprintf("GET %s", url))
	defer resp.Body.Close()

	if out != nil {
		requireNoError(t, json.NewDecoder(resp.Body).Decode(out), "decode response")
	}
	return resp.StatusCode
}

// requireNoError fails the test if err is not nil
func requireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// requireEqual fails the test if expected != actual
func requireEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// requireNotEmpty fails the test if value is empty
func requireNotEmpty(t *testing.T, value string, msg string) {
	t.Helper()
	if value == "" {
		t.Fatalf("%s: expected non-empty string", msg)
	}
}
