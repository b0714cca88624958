package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ciclexpress/website/internal/model"
	"github.com/rs/xid"
)

// ContactRepository defines the persistence interface for contacts and their
// messages.
type ContactRepository interface {
	// GetOrCreateByEmail returns the contact with the given email, creating it
	// from the provided fields when it does not exist. The second return value
	// is true when the contact already existed. Name/country/IP of an existing
	// contact are not updated on repeat submissions.
	GetOrCreateByEmail(ctx context.Context, contact *model.Contact) (*model.Contact, bool, error)

	CreateMessage(ctx context.Context, msg *model.Message) error
	FindMessageByID(ctx context.Context, id string) (*model.Message, error)

	// ListMessages returns messages newest-first, joined with their contact's
	// name, email, country and IP for the admin views.
	ListMessages(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)

	// MarkReplied transitions a Pending message to Replied, recording the
	// reply content and replier. Returns ErrNotFound when the id does not
	// exist and ErrNotPending when the message was already replied.
	MarkReplied(ctx context.Context, id, replyContent, repliedBy string) error
}

// ErrNotPending is returned by MarkReplied when the message has already left
// the Pending status, so the reply transition must not run twice.
var ErrNotPending = errors.New("message is not pending")

// SQLiteContactRepository is the SQLite implementation of ContactRepository.
type SQLiteContactRepository struct {
	db *sql.DB
}

// NewSQLiteContactRepository creates a SQLiteContactRepository backed by the given database.
func NewSQLiteContactRepository(db *sql.DB) *SQLiteContactRepository {
	return &SQLiteContactRepository{db: db}
}

var _ ContactRepository = (*SQLiteContactRepository)(nil)

// GetOrCreateByEmail inserts the contact if its email is unseen, then reads
// the canonical row back. The insert ignores conflicts on the unique email
// column, so two concurrent first-time submissions cannot produce duplicate
// contacts — one insert wins and both submissions read the same row.
func (r *SQLiteContactRepository) GetOrCreateByEmail(ctx context.Context, contact *model.Contact) (*model.Contact, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, country, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		xid.New().String(), contact.Name, contact.Email, contact.Country,
		contact.IPAddress, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	var c model.Contact
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, country, ip_address, created_at
		 FROM contacts WHERE email = ?`, contact.Email)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Country, &c.IPAddress, &c.CreatedAt); err != nil {
		return nil, false, err
	}
	return &c, inserted == 0, nil
}

// CreateMessage inserts a new Pending message and populates its ID and timestamps.
func (r *SQLiteContactRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	msg.ID = xid.New().String()
	msg.Status = model.StatusPending
	now := time.Now().UTC()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, contact_id, content, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ContactID, msg.Content, msg.Status, msg.CreatedAt, msg.UpdatedAt)
	return err
}

const messageSelect = `
	SELECT m.id, m.contact_id, m.content, m.status, m.reply_content, m.replied_by,
	       m.created_at, m.updated_at,
	       c.name, c.email, c.country, c.ip_address
	FROM messages m
	JOIN contacts c ON c.id = m.contact_id`

func scanMessage(scan func(...any) error) (*model.Message, error) {
	var m model.Message
	err := scan(&m.ID, &m.ContactID, &m.Content, &m.Status, &m.ReplyContent,
		&m.RepliedBy, &m.CreatedAt, &m.UpdatedAt,
		&m.ContactName, &m.ContactEmail, &m.ContactCountry, &m.ContactIP)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMessageByID returns a single message joined with its contact, or ErrNotFound.
func (r *SQLiteContactRepository) FindMessageByID(ctx context.Context, id string) (*model.Message, error) {
	row := r.db.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id)
	return scanMessage(row.Scan)
}

// ListMessages returns messages newest-first, optionally filtered by status.
func (r *SQLiteContactRepository) ListMessages(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	query := messageSelect
	var args []any

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		query += ` WHERE m.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkReplied performs the guarded Pending → Replied transition. The status
// check lives in the UPDATE itself so two concurrent replies cannot both
// pass a read-then-write check: only one statement finds the row Pending.
func (r *SQLiteContactRepository) MarkReplied(ctx context.Context, id, replyContent, repliedBy string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages
		 SET status = ?, reply_content = ?, replied_by = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		model.StatusReplied, replyContent, repliedBy, time.Now().UTC(),
		id, model.StatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: distinguish a missing message from an already-replied one.
	var status string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM messages WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotPending
}
