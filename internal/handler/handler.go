// Package handler contains the HTTP handlers for the public site and the
// admin panel. Pages are server-rendered with html/template; every POST
// redirects to a GET view (Post/Redirect/Get) so a refresh never resubmits,
// with the outcome carried in a one-shot flash cookie.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/ciclexpress/website/pkg/flash"
)

// Renderer parses the page templates once and renders them with shared view
// state (title, flash message) plus per-page data.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every template under templateDir.
func NewRenderer(templateDir string) (*Renderer, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// View is the data every template receives. Flash is the consumed one-shot
// message for this request, already removed from the cookie.
type View struct {
	Title string
	Flash *flash.Message
	Data  any
}

// Render executes the named template, consuming any pending flash message
// into the view. Template failures log and return a plain 500; by then part
// of the body may already be written, so no error page is attempted.
func (re *Renderer) Render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	v := View{
		Title: title,
		Flash: flash.Pop(w, r),
		Data:  data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := re.templates.ExecuteTemplate(w, name, v); err != nil {
		slog.Error("render template failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirect sends the Post/Redirect/Get hop.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
