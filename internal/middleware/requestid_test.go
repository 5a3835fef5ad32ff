package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware_GeneratesUUID(t *testing.T) {
	var captured string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("request id %q is not a UUID: %v", captured, err)
	}
	if got := w.Result().Header.Get(RequestIDHeader); got != captured {
		t.Errorf("%s header = %q, want %q", RequestIDHeader, got, captured)
	}
}

func TestRequestIDMiddleware_PropagatesClientID(t *testing.T) {
	var captured string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(RequestIDHeader, "trace-abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if captured != "trace-abc" {
		t.Errorf("request id = %q, want %q", captured, "trace-abc")
	}
}

func TestRequestIDMiddleware_ReplacesOversizedID(t *testing.T) {
	var captured string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("oversized id should be replaced with a UUID, got %q", captured)
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Errorf("RequestIDFromContext = %q, want empty", got)
	}
}
