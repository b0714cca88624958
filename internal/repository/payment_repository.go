package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ciclexpress/website/internal/model"
	"github.com/rs/xid"
)

// PaymentRepository defines the persistence interface for payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	List(ctx context.Context) ([]*model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	// UpdateStatusByTransactionID changes the status of the payment with the
	// given external transaction id. Returns ErrNotFound when no row matches.
	UpdateStatusByTransactionID(ctx context.Context, transactionID, status string) error
}

// SQLitePaymentRepository is the SQLite implementation of PaymentRepository.
type SQLitePaymentRepository struct {
	db *sql.DB
}

// NewSQLitePaymentRepository creates a SQLitePaymentRepository backed by the given database.
func NewSQLitePaymentRepository(db *sql.DB) *SQLitePaymentRepository {
	return &SQLitePaymentRepository{db: db}
}

var _ PaymentRepository = (*SQLitePaymentRepository)(nil)

const paymentSelectCols = `id, user_id, amount, currency, description, status, transaction_id, buyer_email, created_at`

func scanPayment(scan func(...any) error) (*model.Payment, error) {
	var p model.Payment
	var userID sql.NullString
	err := scan(&p.ID, &userID, &p.Amount, &p.Currency, &p.Description,
		&p.Status, &p.TransactionID, &p.BuyerEmail, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.UserID = userID.String
	return &p, nil
}

// Create inserts a payment record and populates its ID and creation timestamp.
func (r *SQLitePaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	payment.ID = xid.New().String()
	payment.CreatedAt = time.Now().UTC()

	var userID any
	if payment.UserID != "" {
		userID = payment.UserID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, user_id, amount, currency, description, status, transaction_id, buyer_email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, userID, payment.Amount, payment.Currency,
		payment.Description, payment.Status, payment.TransactionID,
		payment.BuyerEmail, payment.CreatedAt)
	return err
}

// List returns all payments newest-first.
func (r *SQLitePaymentRepository) List(ctx context.Context) ([]*model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentSelectCols+` FROM payments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// FindByTransactionID returns the payment with the given external transaction
// id, or ErrNotFound.
func (r *SQLitePaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentSelectCols+` FROM payments WHERE transaction_id = ?`, transactionID)
	return scanPayment(row.Scan)
}

// UpdateStatusByTransactionID changes a payment's status, keyed by external
// transaction id.
func (r *SQLitePaymentRepository) UpdateStatusByTransactionID(ctx context.Context, transactionID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE transaction_id = ?`,
		status, transactionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
