package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mdwlog "github.com/msto63/sexpad/foundation/core/log"
	"github.com/msto63/sexpad/internal/scratchpad/service"
	"github.com/msto63/sexpad/internal/scratchpad/store"
	"github.com/msto63/sexpad/pkg/core/health"
	"github.com/msto63/sexpad/pkg/core/logging"
)

func quietLogger() *logging.Logger {
	return logging.Wrap(mdwlog.New().WithOutput(io.Discard), "test")
}

func newTestHandler(t *testing.T) (*Handler, *service.Service) {
	t.Helper()
	st := store.NewMemoryStore()
	svc, err := service.NewService(service.Config{Store: st, MaxSourceLength: 64, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	registry := health.NewRegistry("sexpad", "test")
	registry.Register(health.PingCheck("store", st))
	return NewHandler(svc, registry, quietLogger()), svc
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHandleParse(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodPost, "/api/v1/parse", `{"source":"(a [1] \"s\")"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["canonical"] != `(a (1) "s")` {
		t.Errorf("canonical = %v", body["canonical"])
	}
	if body["id"] == "" || body["id"] == nil {
		t.Error("id should be set")
	}
	if _, ok := body["error"]; ok {
		t.Error("successful parse should not carry an error")
	}

	dump, ok := body["dump"].([]interface{})
	if !ok || len(dump) != 1 {
		t.Fatalf("unexpected dump: %v", body["dump"])
	}
}

func TestHandleParseError(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodPost, "/api/v1/parse", `{"source":"(\"abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	perr, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected error object, got %v", body["error"])
	}
	if perr["kind"] != "UnterminatedString" {
		t.Errorf("kind = %v", perr["kind"])
	}
	if perr["line"] != float64(1) || perr["column"] != float64(2) {
		t.Errorf("position = %v:%v, want 1:2", perr["line"], perr["column"])
	}
}

func TestHandleParseRejectsLongSource(t *testing.T) {
	h, _ := newTestHandler(t)

	payload, _ := json.Marshal(ParseRequest{Source: strings.Repeat("a", 65)})
	rec := doRequest(h, http.MethodPost, "/api/v1/parse", string(payload))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "INVALID_LENGTH" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestHandleFormat(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
		wantCode   string
	}{
		{name: "canonical", body: `{"source":"{x  ; c\n 1.0}"}`, wantStatus: http.StatusOK, wantText: "(x 1)"},
		{name: "unmatched", body: `{"source":"a)"}`, wantStatus: http.StatusBadRequest, wantCode: "SEXPR_UNMATCHED_CLOSE"},
		{name: "bad escape", body: `{"source":"\"\\q\""}`, wantStatus: http.StatusBadRequest, wantCode: "SEXPR_STRING_DECODE"},
		{name: "bad json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, http.MethodPost, "/api/v1/format", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if tt.wantCode != "" && body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
			if tt.wantText != "" && body["text"] != tt.wantText {
				t.Errorf("text = %v, want %s", body["text"], tt.wantText)
			}
		})
	}
}

func TestHandleHistory(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()

	first, _ := svc.Submit(ctx, "(first)")
	svc.Submit(ctx, ")")

	rec := doRequest(h, http.MethodGet, "/api/v1/history?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}

	rec = doRequest(h, http.MethodGet, "/api/v1/history/"+first.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["source"] != "(first)" {
		t.Errorf("source = %v", body["source"])
	}

	rec = doRequest(h, http.MethodGet, "/api/v1/history/stats", "")
	if body := decodeBody(t, rec); body["total"] != float64(2) || body["failed"] != float64(1) {
		t.Errorf("unexpected stats: %v", body)
	}

	if rec := doRequest(h, http.MethodGet, "/api/v1/history/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	if rec := doRequest(h, http.MethodGet, "/api/v1/history?limit=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandleHistoryBounds(t *testing.T) {
	h, svc := newTestHandler(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Submit(ctx, "(x)")
	}

	tests := []struct {
		query string
		want  int
	}{
		{"limit=9223372036854775807&offset=1", 2},
		{"limit=9223372036854775807&offset=9223372036854775807", 0},
		{"limit=-1&offset=-1", 3},
		{"limit=0", 3},
		{"limit=1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := doRequest(h, http.MethodGet, "/api/v1/history?"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}
			var resp HistoryResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Total != tt.want {
				t.Errorf("Expected %d submissions, got %d", tt.want, resp.Total)
			}
		})
	}
}

func TestRouting(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/parse", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/history", http.StatusMethodNotAllowed},
		{http.MethodOptions, "/api/v1/parse", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rec := doRequest(h, tt.method, tt.path, ""); rec.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/health", "")
	body := decodeBody(t, rec)
	if body["status"] != string(health.StatusHealthy) {
		t.Errorf("status = %v", body["status"])
	}
	if checks, ok := body["checks"].([]interface{}); !ok || len(checks) != 1 {
		t.Errorf("unexpected checks: %v", body["checks"])
	}
}
