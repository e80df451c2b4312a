package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/njchilds90/cliph"
)

func post(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestToolEndpoint(t *testing.T) {
	mux := newMux(rate.NewLimiter(rate.Inf, 1))
	rec := post(t, mux, `{"tool":"diff","params":{"expr":"x^2","var":"x"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp cliph.ToolResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.String != "(2 * x)" {
		t.Errorf("want (2 * x), got %q", resp.String)
	}
}

func TestToolEndpointRejects(t *testing.T) {
	mux := newMux(rate.NewLimiter(rate.Inf, 1))

	req := httptest.NewRequest(http.MethodGet, "/tool", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: want 405, got %d", rec.Code)
	}

	if rec := post(t, mux, `{"tool":"parse","bogus":1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: want 400, got %d", rec.Code)
	}
	if rec := post(t, mux, `{"tool":"parse"} {}`); rec.Code != http.StatusBadRequest {
		t.Errorf("trailing data: want 400, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	mux := newMux(rate.NewLimiter(rate.Limit(1e-6), 1))
	body := `{"tool":"parse","params":{"expr":"x"}}`
	if rec := post(t, mux, body); rec.Code != http.StatusOK {
		t.Fatalf("first call: want 200, got %d", rec.Code)
	}
	if rec := post(t, mux, body); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second call: want 429, got %d", rec.Code)
	}
}

func TestSchemaAndHealth(t *testing.T) {
	mux := newMux(rate.NewLimiter(rate.Inf, 1))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	var spec struct {
		Tools []map[string]interface{} `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}
	if len(spec.Tools) != len(cliph.ToolNames()) {
		t.Errorf("want %d tools, got %d", len(cliph.ToolNames()), len(spec.Tools))
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("want status ok, got %s", rec.Body.String())
	}
}
