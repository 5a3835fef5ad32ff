package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// DocsJSONPath はOpenAPIドキュメント（JSON）のパス。
const DocsJSONPath = "/api-json"

// DocsUIPath はSwagger UIのパス。
const DocsUIPath = "/api"

var swaggerUITemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`))

// DocsHandler はOpenAPIドキュメントとSwagger UIを提供するHTTPハンドラー。
// ドキュメントは起動時に1回だけシリアライズする。
type DocsHandler struct {
	title string
	spec  []byte
}

// NewDocsHandler はDocsHandlerを生成する。
func NewDocsHandler(doc *openapi3.T) (*DocsHandler, error) {
	spec, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	title := "API"
	if doc.Info != nil {
		title = doc.Info.Title
	}
	return &DocsHandler{title: title, spec: spec}, nil
}

// Spec はOpenAPIドキュメントを返す。
// GET /api-json
func (h *DocsHandler) Spec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(h.spec)
}

// UI はSwagger UIのHTMLを返す。
// GET /api
func (h *DocsHandler) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := swaggerUITemplate.Execute(w, struct {
		Title   string
		SpecURL string
	}{
		Title:   h.title,
		SpecURL: DocsJSONPath,
	})
	if err != nil {
		slog.Error("failed to render swagger ui", slog.String("error", err.Error()))
	}
}
