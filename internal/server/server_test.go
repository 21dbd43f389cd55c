package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/internal/observability"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

const validVCon = `{
	"vcon": "0.3.0",
	"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
	"created_at": "2024-03-15T10:23:45Z",
	"parties": [{"name": "Alice", "validation": "passport"}]
}`

func testServer(t *testing.T) *Server {
	t.Helper()
	var buf bytes.Buffer
	obs, err := observability.New(context.Background(), observability.ObsConfig{
		LogLevel:  "error",
		LogFormat: "json",
	}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { obs.Close(context.Background()) })
	return New(config.ServerConfig{Addr: ":0"}, pipeline.New(), obs)
}

func TestInspectRawBody(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/inspect", strings.NewReader(validVCon))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result struct {
		IsValid    bool `json:"is_valid"`
		Validation struct {
			OverallStatus string `json:"overall_status"`
		} `json:"validation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected valid document: %s", rec.Body.String())
	}
}

func TestInspectWrappedRequest(t *testing.T) {
	srv := testServer(t)
	wrapper, _ := json.Marshal(map[string]any{"input": validVCon})
	req := httptest.NewRequest(http.MethodPost, "/v1/inspect", bytes.NewReader(wrapper))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInspectInvalidJSON(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/inspect", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	// Unparseable input is still a 200: the pipeline reports it as a
	// parse_error result, not a transport failure.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "parse_error") {
		t.Errorf("expected parse_error in body: %s", rec.Body.String())
	}
}

func TestInspectBadKeyMaterial(t *testing.T) {
	srv := testServer(t)
	wrapper, _ := json.Marshal(map[string]any{"input": validVCon, "private_key": "garbage"})
	req := httptest.NewRequest(http.MethodPost, "/v1/inspect", bytes.NewReader(wrapper))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestInspectBodyTooLarge(t *testing.T) {
	var buf bytes.Buffer
	obs, err := observability.New(context.Background(), observability.ObsConfig{LogLevel: "error", LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer obs.Close(context.Background())
	srv := New(config.ServerConfig{Addr: ":0", MaxBodySize: 64}, pipeline.New(), obs)

	req := httptest.NewRequest(http.MethodPost, "/v1/inspect", strings.NewReader(strings.Repeat("x", 200)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
