package service

import (
	"context"
	"errors"

	"github.com/ciclexpress/website/internal/model"
)

// ErrInvalidAmount is returned when a payment amount is not a positive number.
var ErrInvalidAmount = errors.New("payment amount must be positive")

// PaymentRequest carries one payment-form submission into the service.
type PaymentRequest struct {
	Amount      float64
	Currency    string
	Service     string
	Description string
	PayerName   string
	PayerEmail  string
	UserID      string // set when an authenticated user pays
}

// PaymentService defines the business logic for recording simulated payments.
type PaymentService interface {
	// Record charges the payment through the external fake-payment API when
	// configured (simulating locally otherwise), persists the resulting
	// payment row and attempts a best-effort receipt email.
	Record(ctx context.Context, req PaymentRequest) (*model.Payment, error)

	// List returns all payments newest-first for the admin views.
	List(ctx context.Context) ([]*model.Payment, error)
}
