package model

import "time"

// Message status values. A message is created Pending and transitions to
// Replied exactly once, when an administrator sends a reply.
const (
	StatusPending = "Pending"
	StatusReplied = "Replied"
)

// Contact is a person who has submitted at least one message through the
// contact form. Contacts are keyed by email: repeat submissions from the same
// address reuse the existing row.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Country   string    `json:"country,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single contact-form submission, always linked to a Contact.
type Message struct {
	ID           string    `json:"id"`
	ContactID    string    `json:"contact_id"`
	Content      string    `json:"content"`
	Status       string    `json:"status"` // StatusPending | StatusReplied
	ReplyContent string    `json:"reply_content,omitempty"`
	RepliedBy    string    `json:"replied_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Contact fields joined in for admin listing.
	ContactName    string `json:"contact_name,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactCountry string `json:"contact_country,omitempty"`
	ContactIP      string `json:"contact_ip,omitempty"`
}

// IsReplied reports whether the message has reached its terminal status.
func (m *Message) IsReplied() bool {
	return m.Status == StatusReplied
}

// MessageListOptions carries the filter for listing messages.
type MessageListOptions struct {
	// Status filters by message status: "", "all", StatusPending, StatusReplied.
	// Empty string and "all" return all messages.
	Status string
}
