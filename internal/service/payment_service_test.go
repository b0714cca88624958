package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/pkg/fakepayment"
	"github.com/ciclexpress/website/pkg/mailer"
)

func TestPaymentService_Record_SimulatesLocallyWhenNotConfigured(t *testing.T) {
	var created *model.Payment
	repo := &mockPaymentRepository{
		createFunc: func(ctx context.Context, p *model.Payment) error {
			p.ID = "pay-1"
			created = p
			return nil
		},
	}
	svc := NewPaymentService(repo, &mockCharger{}, &mockMailer{})

	payment, err := svc.Record(context.Background(), PaymentRequest{
		Amount:   350,
		Currency: "MXN",
		Service:  "Mantenimiento de jardín",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected the payment to be persisted")
	}
	if !strings.HasPrefix(payment.TransactionID, "TRX-") {
		t.Errorf("expected a TRX- transaction id, got %q", payment.TransactionID)
	}
	if payment.Status != model.PaymentStatusCompleted {
		t.Errorf("expected status=%s, got %q", model.PaymentStatusCompleted, payment.Status)
	}
	if payment.Description != "Mantenimiento de jardín" {
		t.Errorf("expected service as description, got %q", payment.Description)
	}
}

func TestPaymentService_Record_UsesExternalTransactionID(t *testing.T) {
	charger := &mockCharger{
		chargeFunc: func(ctx context.Context, params fakepayment.ChargeParams) (*fakepayment.ChargeResult, error) {
			return &fakepayment.ChargeResult{
				TransactionID: "TRX-EXTERNAL",
				Status:        model.PaymentStatusCompleted,
			}, nil
		},
	}
	svc := NewPaymentService(&mockPaymentRepository{}, charger, &mockMailer{})

	payment, err := svc.Record(context.Background(), PaymentRequest{
		Amount: 100, Currency: "MXN", Service: "Fumigación",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.TransactionID != "TRX-EXTERNAL" {
		t.Errorf("expected the external transaction id, got %q", payment.TransactionID)
	}
}

func TestPaymentService_Record_ChargeErrorAborts(t *testing.T) {
	charger := &mockCharger{
		chargeFunc: func(ctx context.Context, params fakepayment.ChargeParams) (*fakepayment.ChargeResult, error) {
			return nil, errors.New("payment declined")
		},
	}
	var created bool
	repo := &mockPaymentRepository{
		createFunc: func(ctx context.Context, p *model.Payment) error {
			created = true
			return nil
		},
	}
	svc := NewPaymentService(repo, charger, &mockMailer{})

	if _, err := svc.Record(context.Background(), PaymentRequest{
		Amount: 100, Currency: "MXN", Service: "Fumigación",
	}); err == nil {
		t.Error("expected an error when the charge fails")
	}
	if created {
		t.Error("expected no payment row after a failed charge")
	}
}

func TestPaymentService_Record_InvalidAmount(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepository{}, &mockCharger{}, &mockMailer{})

	for _, amount := range []float64{0, -10} {
		_, err := svc.Record(context.Background(), PaymentRequest{
			Amount: amount, Currency: "MXN", Service: "Riego",
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount=%v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestPaymentService_Record_MissingCurrency(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepository{}, &mockCharger{}, &mockMailer{})

	if _, err := svc.Record(context.Background(), PaymentRequest{
		Amount: 50, Service: "Riego",
	}); err == nil {
		t.Error("expected an error for a missing currency")
	}
}

func TestPaymentService_Record_SendsReceiptWhenEmailGiven(t *testing.T) {
	var receipt *mailer.PaymentDetails
	mail := &mockMailer{
		paymentFunc: func(name, email string, details mailer.PaymentDetails) error {
			if name != "Cliente" {
				t.Errorf("expected default name Cliente, got %q", name)
			}
			if email != "buyer@example.com" {
				t.Errorf("unexpected recipient %q", email)
			}
			receipt = &details
			return nil
		},
	}
	svc := NewPaymentService(&mockPaymentRepository{}, &mockCharger{}, mail)

	payment, err := svc.Record(context.Background(), PaymentRequest{
		Amount: 75, Currency: "MXN", Service: "Poda",
		PayerEmail: "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt == nil {
		t.Fatal("expected a receipt email")
	}
	if receipt.TransactionID != payment.TransactionID {
		t.Errorf("receipt transaction id %q does not match payment %q",
			receipt.TransactionID, payment.TransactionID)
	}
}

func TestPaymentService_Record_NoReceiptWithoutEmail(t *testing.T) {
	mail := &mockMailer{
		paymentFunc: func(name, email string, details mailer.PaymentDetails) error {
			t.Error("expected no receipt email without a buyer email")
			return nil
		},
	}
	svc := NewPaymentService(&mockPaymentRepository{}, &mockCharger{}, mail)

	if _, err := svc.Record(context.Background(), PaymentRequest{
		Amount: 75, Currency: "MXN", Service: "Poda",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
