// File: internal/handlers/page_handlers.go
package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/iyunix/go-chatfront/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Template cache to avoid parsing templates on every request
var (
	templateCache     map[string]*template.Template
	templateCacheErr  error
	templateCacheOnce sync.Once
)

var pageTemplates = []string{"chat.html", "error.html"}

// loadTemplateCache creates separate template sets for each page, each on
// top of the shared layout.
func loadTemplateCache() {
	cache := make(map[string]*template.Template)
	for _, tmpl := range pageTemplates {
		ts, err := template.New(tmpl).ParseFS(templateFS, "templates/layout.html", "templates/"+tmpl)
		if err != nil {
			templateCacheErr = err
			return
		}
		cache[tmpl] = ts
	}
	templateCache = cache
}

// StaticHandler serves the embedded stylesheet and script.
func StaticHandler() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.FileServer(http.FS(sub))
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

// PageHandler renders full HTML pages.
type PageHandler struct {
	logger services.Logger
}

func NewPageHandler(logger services.Logger) *PageHandler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &PageHandler{logger: logger}
}

// render executes a cached page inside layout.html.
func (h *PageHandler) render(w http.ResponseWriter, status int, tmpl string, data map[string]interface{}) {
	templateCacheOnce.Do(loadTemplateCache)
	if templateCacheErr != nil {
		h.logger.Error("Template parse failed", "error", templateCacheErr)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	t, ok := templateCache[tmpl]
	if !ok {
		h.logger.Error("Template not found in cache", "template", tmpl)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	addSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("Template render error", "template", tmpl, "error", err)
	}
}

func (h *PageHandler) ShowErrorPage(w http.ResponseWriter, status int, message, description string) {
	h.render(w, status, "error.html", map[string]interface{}{
		"Code":        status,
		"Message":     message,
		"Description": description,
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.ShowErrorPage(w, http.StatusNotFound, "Page Not Found", "The page you are looking for does not exist.")
}

func (h *PageHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.ShowErrorPage(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The method is not allowed for this resource.")
}
