package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected header to match context id, got %s vs %s", rec.Header().Get("X-Request-ID"), seen)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "req-42" {
		t.Fatalf("expected req-42, got %s", seen)
	}
}
