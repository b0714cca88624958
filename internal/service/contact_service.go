package service

import (
	"context"
	"errors"

	"github.com/ciclexpress/website/internal/model"
)

// ErrAlreadyReplied is returned when a reply is attempted on a message whose
// status is already terminal. The caller reports it as a warning, not a failure.
var ErrAlreadyReplied = errors.New("message already replied")

// ErrReplyEmailFailed is returned when the reply was recorded but the outbound
// email could not be delivered. The database update is the source of truth;
// the caller surfaces this as a warning.
var ErrReplyEmailFailed = errors.New("reply recorded but email delivery failed")

// ContactSubmission carries one contact-form submission into the service.
type ContactSubmission struct {
	Name     string
	Email    string
	Message  string
	Country  string
	ClientIP string
}

// ContactService defines the business logic for the contact intake and reply
// workflow.
type ContactService interface {
	// Submit finds or creates the contact for the submission's email and
	// appends a Pending message to it. A confirmation email to the submitter
	// (with an admin copy) is attempted best-effort after the write.
	Submit(ctx context.Context, sub ContactSubmission) (*model.Message, error)

	// ListMessages returns messages for the admin views, newest-first,
	// optionally filtered by status.
	ListMessages(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)

	// Reply transitions a Pending message to Replied, recording the reply
	// content and the replying admin, then emails the contact. Returns
	// repository.ErrNotFound for an unknown id, ErrAlreadyReplied when the
	// message already left Pending, and ErrReplyEmailFailed when the
	// transition was persisted but the email could not be sent.
	Reply(ctx context.Context, messageID, replyContent, repliedBy string) error
}
