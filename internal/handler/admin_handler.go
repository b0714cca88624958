package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/internal/repository"
	"github.com/ciclexpress/website/internal/service"
	"github.com/ciclexpress/website/pkg/auth"
	"github.com/ciclexpress/website/pkg/flash"
)

// AdminHandler serves the session-gated admin panel: message and payment
// listings plus the reply action. The routes are wrapped in
// auth.RequireAdmin, so handlers can assume an authenticated admin.
type AdminHandler struct {
	render   *Renderer
	contacts service.ContactService
	payments service.PaymentService
	users    repository.UserRepository
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(render *Renderer, contacts service.ContactService, payments service.PaymentService, users repository.UserRepository) *AdminHandler {
	return &AdminHandler{
		render:   render,
		contacts: contacts,
		payments: payments,
		users:    users,
	}
}

type dashboardData struct {
	AllMessages     []*model.Message
	PendingMessages []*model.Message
	Payments        []*model.Payment
}

// Dashboard handles GET /admin: all messages, pending messages and payments
// on one page. A partial load still renders, with the failure flashed.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var data dashboardData
	var loadErr error

	if data.AllMessages, loadErr = h.contacts.ListMessages(r.Context(),
		model.MessageListOptions{}); loadErr == nil {
		for _, m := range data.AllMessages {
			if m.Status == model.StatusPending {
				data.PendingMessages = append(data.PendingMessages, m)
			}
		}
	}
	if loadErr == nil {
		data.Payments, loadErr = h.payments.List(r.Context())
	}
	if loadErr != nil {
		slog.Error("dashboard load failed", "error", loadErr)
		flash.Set(w, flash.Error, "Error al cargar los datos del panel de administración.")
	}

	h.render.Render(w, r, "administracion", "Panel de Administración", data)
}

type messageListData struct {
	Messages []*model.Message
	Status   string
}

// Contacts handles GET /admin/contacts with an optional ?status= filter.
func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	messages, err := h.contacts.ListMessages(r.Context(),
		model.MessageListOptions{Status: status})
	if err != nil {
		slog.Error("contact list failed", "error", err)
		flash.Set(w, flash.Error, "Error al cargar los contactos.")
	}
	h.render.Render(w, r, "admin_contacts", "Administración de Contactos",
		messageListData{Messages: messages, Status: status})
}

// Payments handles GET /admin/payments.
func (h *AdminHandler) Payments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.List(r.Context())
	if err != nil {
		slog.Error("payment list failed", "error", err)
		flash.Set(w, flash.Error, "Hubo un error al obtener los pagos.")
	}
	h.render.Render(w, r, "admin_payments", "Pagos y Ventas", payments)
}

// SendReply handles POST /admin/replies/send/{messageId}.
func (h *AdminHandler) SendReply(w http.ResponseWriter, r *http.Request) {
	messageID := r.PathValue("messageId")
	if messageID == "" {
		flash.Set(w, flash.Error, "ID de mensaje inválido para enviar respuesta.")
		redirect(w, r, "/admin")
		return
	}

	if err := r.ParseForm(); err != nil {
		flash.Set(w, flash.Error, "Solicitud inválida.")
		redirect(w, r, "/admin")
		return
	}
	replyContent := strings.TrimSpace(r.PostFormValue("replyContent"))
	if replyContent == "" {
		flash.Set(w, flash.Error, "El mensaje de respuesta no puede estar vacío.")
		redirect(w, r, "/admin")
		return
	}

	err := h.contacts.Reply(r.Context(), messageID, replyContent, h.adminName(r))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		flash.Set(w, flash.Error, fmt.Sprintf(
			"Mensaje con ID %s no encontrado para enviar respuesta.", messageID))
	case errors.Is(err, service.ErrAlreadyReplied):
		flash.Set(w, flash.Warning, "El mensaje ya ha sido respondido.")
	case errors.Is(err, service.ErrReplyEmailFailed):
		flash.Set(w, flash.Warning,
			"La respuesta fue registrada, pero el correo no pudo enviarse.")
	case err != nil:
		slog.Error("reply failed", "message_id", messageID, "error", err)
		flash.Set(w, flash.Error, fmt.Sprintf(
			"Error al enviar la respuesta para el mensaje con ID %s.", messageID))
	default:
		flash.Set(w, flash.Success, "Respuesta enviada exitosamente.")
	}
	redirect(w, r, "/admin")
}

// adminName resolves the replying admin's display name for the reply record.
func (h *AdminHandler) adminName(r *http.Request) string {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "Admin"
	}
	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		return "Admin"
	}
	return user.Name()
}
