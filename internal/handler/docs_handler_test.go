package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/usersapi/internal/apidoc"
)

func newTestDocsHandler(t *testing.T) *DocsHandler {
	t.Helper()
	h, err := NewDocsHandler(apidoc.Build(apidoc.DefaultInfo()))
	if err != nil {
		t.Fatalf("NewDocsHandler() error = %v", err)
	}
	return h
}

func TestDocsHandler_Spec(t *testing.T) {
	h := newTestDocsHandler(t)

	req := httptest.NewRequest(http.MethodGet, DocsJSONPath, nil)
	w := httptest.NewRecorder()

	h.Spec(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		t.Errorf("openapi = %q, want 3.x", doc.OpenAPI)
	}
	if doc.Info.Title != "Users API" {
		t.Errorf("title = %q, want %q", doc.Info.Title, "Users API")
	}
	for _, p := range []string{"/users", "/users/{id}", "/health"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("path %s is missing", p)
		}
	}
}

func TestDocsHandler_UI(t *testing.T) {
	h := newTestDocsHandler(t)

	req := httptest.NewRequest(http.MethodGet, DocsUIPath, nil)
	w := httptest.NewRecorder()

	h.UI(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "api-json") {
		t.Error("UI page should reference the OpenAPI document")
	}
	if !strings.Contains(body, "<title>Users API</title>") {
		t.Error("UI page should carry the document title")
	}
}
