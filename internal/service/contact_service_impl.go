package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/internal/repository"
	"github.com/ciclexpress/website/pkg/mailer"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
	mail mailer.Mailer
}

// NewContactService creates a ContactService backed by the given repository
// and mailer.
func NewContactService(repo repository.ContactRepository, mail mailer.Mailer) ContactService {
	return &contactServiceImpl{repo: repo, mail: mail}
}

// Submit stores the submission and attempts the confirmation email. The
// database write is the source of truth: a failed send is logged and does not
// fail the submission.
func (s *contactServiceImpl) Submit(ctx context.Context, sub ContactSubmission) (*model.Message, error) {
	contact, existed, err := s.repo.GetOrCreateByEmail(ctx, &model.Contact{
		Name:      sub.Name,
		Email:     sub.Email,
		Country:   sub.Country,
		IPAddress: sub.ClientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("get or create contact: %w", err)
	}

	msg := &model.Message{
		ContactID: contact.ID,
		Content:   sub.Message,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	slog.Info("contact message stored",
		"message_id", msg.ID, "contact_id", contact.ID, "existing_contact", existed)

	if err := s.mail.SendContactConfirmation(mailer.ContactInfo{
		Name:     contact.Name,
		Email:    contact.Email,
		Message:  sub.Message,
		Country:  sub.Country,
		ClientIP: sub.ClientIP,
		Existing: existed,
	}); err != nil {
		slog.Warn("contact confirmation email failed",
			"message_id", msg.ID, "error", err)
	}
	return msg, nil
}

// ListMessages returns messages for the admin views.
func (s *contactServiceImpl) ListMessages(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	return s.repo.ListMessages(ctx, opts)
}

// Reply persists the guarded Pending → Replied transition first, then sends
// the reply email. The transition is atomic in the store, so two concurrent
// replies cannot both succeed.
func (s *contactServiceImpl) Reply(ctx context.Context, messageID, replyContent, repliedBy string) error {
	msg, err := s.repo.FindMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.IsReplied() {
		return ErrAlreadyReplied
	}

	err = s.repo.MarkReplied(ctx, messageID, replyContent, repliedBy)
	if errors.Is(err, repository.ErrNotPending) {
		// Lost the race against another admin.
		return ErrAlreadyReplied
	}
	if err != nil {
		return fmt.Errorf("mark replied: %w", err)
	}
	slog.Info("message replied",
		"message_id", messageID, "replied_by", repliedBy)

	if err := s.mail.SendReplyToContact(msg.ContactName, msg.ContactEmail,
		msg.Content, replyContent); err != nil {
		slog.Warn("reply email failed", "message_id", messageID, "error", err)
		return ErrReplyEmailFailed
	}
	return nil
}
