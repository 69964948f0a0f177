//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/msto63/sexpad/internal/scratchpad/server"
)

// TestE2E_RESTWorkflow parses, formats and reads back the history over HTTP
func TestE2E_RESTWorkflow(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, hostOf(t, cfg.HTTPURL), "sexpad HTTP")

	var parsed struct {
		ID        string `json:"id"`
		Canonical string `json:"canonical"`
		Error     *struct {
			Kind   string `json:"kind"`
			Line   int    `json:"line"`
			Column int    `json:"column"`
		} `json:"error"`
	}
	code := postJSON(t, cfg.HTTPURL+"/api/v1/parse", map[string]string{"source": "(e2e [1 2] \"x\") ; c"}, &parsed)
	requireEqual(t, http.StatusOK, code, "parse status")
	requireNotEmpty(t, parsed.ID, "submission id")
	requireEqual(t, `(e2e (1 2) "x")`, parsed.Canonical, "canonical")

	code = postJSON(t, cfg.HTTPURL+"/api/v1/parse", map[string]string{"source": "(a)\n)"}, &parsed)
	requireEqual(t, http.StatusOK, code, "failed parse status")
	if parsed.Error == nil {
		t.Fatal("Expected parse error in response")
	}
	requireEqual(t, "UnmatchedClose", parsed.Error.Kind, "error kind")
	requireEqual(t, 2, parsed.Error.Line, "error line")

	var formatted struct {
		Text string `json:"text"`
	}
	code = postJSON(t, cfg.HTTPURL+"/api/v1/format", map[string]string{"source": "{ a  b }"}, &formatted)
	requireEqual(t, http.StatusOK, code, "format status")
	requireEqual(t, "(a b)", formatted.Text, "formatted text")

	var history struct {
		Submissions []struct {
			ID string `json:"id"`
		} `json:"submissions"`
	}
	code = getJSON(t, cfg.HTTPURL+"/api/v1/history?limit=5", &history)
	requireEqual(t, http.StatusOK, code, "history status")
	if len(history.Submissions) == 0 {
		t.Fatal("Expected recorded submissions")
	}

	var health struct {
		Status string `json:"status"`
	}
	getJSON(t, cfg.HTTPURL+"/health", &health)
	requireEqual(t, "healthy", health.Status, "health status")
}

// TestE2E_WebSocket exercises the live parse channel
func TestE2E_WebSocket(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, hostOf(t, cfg.HTTPURL), "sexpad HTTP")

	wsURL := "ws" + strings.TrimPrefix(cfg.HTTPURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	requireNoError(t, err, "dial websocket")
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	requireNoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "parse",
		"payload": map[string]string{"source": "(ws 1)"},
	}), "write parse")

	var reply struct {
		Type    string `json:"type"`
		Payload struct {
			Canonical string `json:"canonical"`
		} `json:"payload"`
	}
	requireNoError(t, conn.ReadJSON(&reply), "read reply")
	requireEqual(t, "result", reply.Type, "reply type")
	requireEqual(t, "(ws 1)", reply.Payload.Canonical, "canonical")
}

// TestE2E_GRPCReader exercises the Reader service and gRPC health
func TestE2E_GRPCReader(t *testing.T) {
	cfg := getTestConfig()
	skipIfServiceUnavailable(t, cfg.GRPCAddr, "sexpad gRPC")

	conn := dialGRPC(t, cfg.GRPCAddr)
	ctx, cancel := testContext(t, 10*time.Second)
	defer cancel()

	client := server.NewReaderClient(conn)
	reply, err := client.Parse(ctx, "[grpc \"e2e\"]")
	requireNoError(t, err, "Parse")
	requireEqual(t, `(grpc "e2e")`, reply.Canonical, "canonical")

	text, err := client.Format(ctx, reply.Exprs)
	requireNoError(t, err, "Format")
	requireEqual(t, reply.Canonical, text, "formatted text")

	_, err = client.Parse(ctx, "\"open")
	requireEqual(t, codes.InvalidArgument, status.Code(err), "parse error code")

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: server.ReaderServiceName})
	requireNoError(t, err, "health check")
	requireEqual(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus(), "health status")
}
