package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/internal/repository"
	"github.com/ciclexpress/website/pkg/fakepayment"
	"github.com/ciclexpress/website/pkg/mailer"
	"github.com/rs/xid"
)

// paymentServiceImpl is the production implementation of PaymentService.
type paymentServiceImpl struct {
	repo    repository.PaymentRepository
	charger fakepayment.Client
	mail    mailer.Mailer
}

// NewPaymentService creates a PaymentService backed by the given repository,
// fake-payment client and mailer.
func NewPaymentService(repo repository.PaymentRepository, charger fakepayment.Client, mail mailer.Mailer) PaymentService {
	return &paymentServiceImpl{repo: repo, charger: charger, mail: mail}
}

// Record validates and persists one payment. The external charge runs first;
// with no API key configured the transaction id is generated locally, keeping
// the simulated flow working without the external service.
func (s *paymentServiceImpl) Record(ctx context.Context, req PaymentRequest) (*model.Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.Currency) == "" {
		return nil, errors.New("currency is required")
	}

	description := req.Description
	if description == "" {
		description = req.Service
	}

	transactionID := "TRX-" + strings.ToUpper(xid.New().String())
	status := model.PaymentStatusCompleted

	result, err := s.charger.Charge(ctx, fakepayment.ChargeParams{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: description,
		Reference:   transactionID,
	})
	switch {
	case errors.Is(err, fakepayment.ErrNotConfigured):
		slog.Debug("fake-payment API not configured, simulating locally",
			"transaction_id", transactionID)
	case err != nil:
		return nil, fmt.Errorf("charge payment: %w", err)
	default:
		transactionID = result.TransactionID
		if result.Status != "" {
			status = result.Status
		}
	}

	payment := &model.Payment{
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   description,
		Status:        status,
		TransactionID: transactionID,
		BuyerEmail:    req.PayerEmail,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	slog.Info("payment recorded",
		"payment_id", payment.ID, "transaction_id", transactionID,
		"amount", req.Amount, "currency", req.Currency)

	if payment.BuyerEmail != "" {
		name := req.PayerName
		if name == "" {
			name = "Cliente"
		}
		if err := s.mail.SendPaymentConfirmation(name, payment.BuyerEmail, mailer.PaymentDetails{
			TransactionID: payment.TransactionID,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			Date:          time.Now().Format("02/01/2006"),
			Description:   payment.Description,
			Status:        payment.Status,
		}); err != nil {
			slog.Warn("payment confirmation email failed",
				"payment_id", payment.ID, "error", err)
		}
	}
	return payment, nil
}

// List returns all payments newest-first.
func (s *paymentServiceImpl) List(ctx context.Context) ([]*model.Payment, error) {
	return s.repo.List(ctx)
}
