package handlers

import (
	"net/http"

	"github.com/freema/daysync/internal/viewer"
)

// DocsHandler serves the OpenAPI specification and the Swagger UI viewer.
type DocsHandler struct {
	spec   []byte
	viewer *viewer.Viewer
}

// NewDocsHandler creates a docs handler for a rendered viewer.
func NewDocsHandler(spec []byte, v *viewer.Viewer) *DocsHandler {
	return &DocsHandler{spec: spec, viewer: v}
}

// Redirect sends /docs to /docs/ so relative asset paths resolve.
func (h *DocsHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
}

// Index serves the Swagger UI HTML shell.
func (h *DocsHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.viewer.Index)
}

// Initializer serves the script that boots Swagger UI on page load.
func (h *DocsHandler) Initializer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", h.viewer.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == h.viewer.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.viewer.Script)
}

// OpenAPISpec serves the raw OpenAPI YAML specification.
func (h *DocsHandler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec)
}

// ViewerConfig exposes the options the viewer was initialized with.
func (h *DocsHandler) ViewerConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.viewer.Config)
}
