package service

import (
	"context"

	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/pkg/fakepayment"
	"github.com/ciclexpress/website/pkg/mailer"
)

// ---------------------------------------------------------------------------
// mockContactRepository — in-memory stub for testing
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	getOrCreateFunc func(ctx context.Context, contact *model.Contact) (*model.Contact, bool, error)
	createMsgFunc   func(ctx context.Context, msg *model.Message) error
	findMsgFunc     func(ctx context.Context, id string) (*model.Message, error)
	listFunc        func(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)
	markRepliedFunc func(ctx context.Context, id, replyContent, repliedBy string) error
}

func (m *mockContactRepository) GetOrCreateByEmail(ctx context.Context, contact *model.Contact) (*model.Contact, bool, error) {
	if m.getOrCreateFunc != nil {
		return m.getOrCreateFunc(ctx, contact)
	}
	contact.ID = "contact-1"
	return contact, false, nil
}

func (m *mockContactRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	if m.createMsgFunc != nil {
		return m.createMsgFunc(ctx, msg)
	}
	msg.ID = "msg-1"
	msg.Status = model.StatusPending
	return nil
}

func (m *mockContactRepository) FindMessageByID(ctx context.Context, id string) (*model.Message, error) {
	if m.findMsgFunc != nil {
		return m.findMsgFunc(ctx, id)
	}
	return &model.Message{ID: id, Status: model.StatusPending}, nil
}

func (m *mockContactRepository) ListMessages(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockContactRepository) MarkReplied(ctx context.Context, id, replyContent, repliedBy string) error {
	if m.markRepliedFunc != nil {
		return m.markRepliedFunc(ctx, id, replyContent, repliedBy)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockPaymentRepository
// ---------------------------------------------------------------------------

type mockPaymentRepository struct {
	createFunc       func(ctx context.Context, payment *model.Payment) error
	listFunc         func(ctx context.Context) ([]*model.Payment, error)
	findByTrxFunc    func(ctx context.Context, transactionID string) (*model.Payment, error)
	updateStatusFunc func(ctx context.Context, transactionID, status string) error
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, payment)
	}
	payment.ID = "pay-1"
	return nil
}

func (m *mockPaymentRepository) List(ctx context.Context) ([]*model.Payment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	if m.findByTrxFunc != nil {
		return m.findByTrxFunc(ctx, transactionID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) UpdateStatusByTransactionID(ctx context.Context, transactionID, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, transactionID, status)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockUserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	findByIDFunc       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (*model.User, error)
	findByGoogleIDFunc func(ctx context.Context, googleID string) (*model.User, error)
	createFunc         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	if m.findByGoogleIDFunc != nil {
		return m.findByGoogleIDFunc(ctx, googleID)
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "user-1"
	return nil
}

// ---------------------------------------------------------------------------
// mockMailer
// ---------------------------------------------------------------------------

type mockMailer struct {
	contactFunc func(info mailer.ContactInfo) error
	replyFunc   func(name, email, original, reply string) error
	paymentFunc func(name, email string, details mailer.PaymentDetails) error
}

func (m *mockMailer) SendContactConfirmation(info mailer.ContactInfo) error {
	if m.contactFunc != nil {
		return m.contactFunc(info)
	}
	return nil
}

func (m *mockMailer) SendReplyToContact(name, email, original, reply string) error {
	if m.replyFunc != nil {
		return m.replyFunc(name, email, original, reply)
	}
	return nil
}

func (m *mockMailer) SendPaymentConfirmation(name, email string, details mailer.PaymentDetails) error {
	if m.paymentFunc != nil {
		return m.paymentFunc(name, email, details)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockCharger
// ---------------------------------------------------------------------------

type mockCharger struct {
	chargeFunc func(ctx context.Context, params fakepayment.ChargeParams) (*fakepayment.ChargeResult, error)
}

func (m *mockCharger) Charge(ctx context.Context, params fakepayment.ChargeParams) (*fakepayment.ChargeResult, error) {
	if m.chargeFunc != nil {
		return m.chargeFunc(ctx, params)
	}
	return nil, fakepayment.ErrNotConfigured
}
