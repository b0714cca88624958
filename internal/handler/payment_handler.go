package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ciclexpress/website/internal/repository"
	"github.com/ciclexpress/website/internal/service"
	"github.com/ciclexpress/website/pkg/auth"
	"github.com/ciclexpress/website/pkg/flash"
)

// PaymentHandler handles the simulated payment form. The routes run behind
// auth.WithSession so an authenticated user's identity is attached to the
// payment without requiring login.
type PaymentHandler struct {
	render   *Renderer
	payments service.PaymentService
	users    repository.UserRepository
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(render *Renderer, payments service.PaymentService, users repository.UserRepository) *PaymentHandler {
	return &PaymentHandler{render: render, payments: payments, users: users}
}

// ShowForm handles GET /payment.
func (h *PaymentHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "payment", "Procesar Pago", nil)
}

// Submit handles POST /payment/add. The amount must parse and be positive
// before any row is written.
func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flash.Set(w, flash.Error, "Por favor, completa todos los campos de pago correctamente.")
		redirect(w, r, "/payment")
		return
	}

	amountStr := strings.TrimSpace(r.PostFormValue("amount"))
	currency := strings.TrimSpace(r.PostFormValue("currency"))
	svc := strings.TrimSpace(r.PostFormValue("service"))
	description := strings.TrimSpace(r.PostFormValue("description"))
	formEmail := strings.TrimSpace(r.PostFormValue("email"))

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 || currency == "" || svc == "" {
		flash.Set(w, flash.Error, "Por favor, completa todos los campos de pago correctamente.")
		redirect(w, r, "/payment")
		return
	}

	req := service.PaymentRequest{
		Amount:      amount,
		Currency:    currency,
		Service:     svc,
		Description: description,
		PayerEmail:  formEmail,
	}
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		if user, err := h.users.FindByID(r.Context(), userID); err == nil {
			req.UserID = user.ID
			req.PayerName = user.Name()
			if user.Email != "" {
				req.PayerEmail = user.Email
			}
		}
	}

	payment, err := h.payments.Record(r.Context(), req)
	if errors.Is(err, service.ErrInvalidAmount) {
		flash.Set(w, flash.Error, "Por favor, completa todos los campos de pago correctamente.")
		redirect(w, r, "/payment")
		return
	}
	if err != nil {
		slog.Error("payment failed", "error", err)
		flash.Set(w, flash.Error, "Hubo un error al procesar tu pago. Por favor, intenta de nuevo más tarde.")
		redirect(w, r, "/payment")
		return
	}

	flash.Set(w, flash.Success, fmt.Sprintf(
		"¡Pago de %.2f %s realizado con éxito! ID de transacción: %s",
		payment.Amount, payment.Currency, payment.TransactionID))
	redirect(w, r, "/payment")
}
