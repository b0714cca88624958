package handler

import "net/http"

// PageHandler serves the static informational pages.
type PageHandler struct {
	render *Renderer
}

// NewPageHandler creates a PageHandler with the given renderer.
func NewPageHandler(render *Renderer) *PageHandler {
	return &PageHandler{render: render}
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "index", "Inicio Ciclexpress", nil)
}

// Services handles GET /servicios.
func (h *PageHandler) Services(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "servicios", "Servicios Ciclexpress", nil)
}

// About handles GET /informacion.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "informacion", "Sobre Ciclexpress", nil)
}
