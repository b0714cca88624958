package model

import "time"

// Payment status values.
const (
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

// Payment records one simulated transaction. Rows are written once after the
// payment attempt completes; only the status may change afterwards, keyed by
// the external transaction id.
type Payment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	BuyerEmail    string    `json:"buyer_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
