package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ciclexpress/website/internal/service"
	"github.com/ciclexpress/website/pkg/flash"
	"github.com/ciclexpress/website/pkg/recaptcha"
)

const maxMessageLength = 5000

// ContactHandler handles the public contact form and its submissions.
type ContactHandler struct {
	render   *Renderer
	contacts service.ContactService
	verifier recaptcha.Verifier // nil disables the CAPTCHA gate
	siteKey  string
}

// NewContactHandler creates a ContactHandler. A nil verifier skips CAPTCHA
// verification entirely (unconfigured deployments).
func NewContactHandler(render *Renderer, contacts service.ContactService, verifier recaptcha.Verifier, siteKey string) *ContactHandler {
	return &ContactHandler{
		render:   render,
		contacts: contacts,
		verifier: verifier,
		siteKey:  siteKey,
	}
}

type contactFormData struct {
	RecaptchaSiteKey string
}

// ShowForm handles GET /contacto.
func (h *ContactHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "contacto", "Contacto Ciclexpress",
		contactFormData{RecaptchaSiteKey: h.siteKey})
}

// Submit handles POST /contact/add: validate, verify CAPTCHA, store, flash,
// redirect back to the form.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flash.Set(w, flash.Error, "Error: Solicitud inválida.")
		redirect(w, r, "/contacto")
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	comment := strings.TrimSpace(r.PostFormValue("comment"))
	country := strings.TrimSpace(r.PostFormValue("country"))

	if name == "" || email == "" || comment == "" {
		flash.Set(w, flash.Error, "Error: Faltan campos obligatorios.")
		redirect(w, r, "/contacto")
		return
	}
	if len([]rune(comment)) > maxMessageLength {
		flash.Set(w, flash.Error, "Error: El mensaje es demasiado largo.")
		redirect(w, r, "/contacto")
		return
	}

	clientIP := ClientIP(r)

	if h.verifier != nil {
		ok, err := h.verifier.Verify(r.Context(),
			r.PostFormValue("g-recaptcha-response"), clientIP)
		if err != nil {
			slog.Error("recaptcha verification error", "error", err)
			flash.Set(w, flash.Error, "No se pudo verificar el reCAPTCHA. Intenta de nuevo.")
			redirect(w, r, "/contacto")
			return
		}
		if !ok {
			flash.Set(w, flash.Error, "Verificación reCAPTCHA fallida. Intenta de nuevo.")
			redirect(w, r, "/contacto")
			return
		}
	}

	_, err := h.contacts.Submit(r.Context(), service.ContactSubmission{
		Name:     name,
		Email:    email,
		Message:  comment,
		Country:  country,
		ClientIP: clientIP,
	})
	if err != nil {
		slog.Error("contact submission failed", "error", err)
		flash.Set(w, flash.Error, "Hubo un error al guardar tu mensaje. Intenta de nuevo.")
		redirect(w, r, "/contacto")
		return
	}

	flash.Set(w, flash.Success, "¡Tu mensaje ha sido enviado con éxito!")
	redirect(w, r, "/contacto")
}
