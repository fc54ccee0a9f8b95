package loan

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotPending        = errors.New("loan is not pending")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus accepts only the known lifecycle states.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

type FeeStatus string

const (
	FeeUnpaid FeeStatus = "unpaid"
	FeePaid   FeeStatus = "paid"
)

// Payment is the embedded record written exactly once by the webhook.
// It is the single source of truth for the processing fee; the
// payment_sessions collection is audit-only.
type Payment struct {
	SessionID     string    `bson:"session_id" json:"session_id"`
	TransactionID string    `bson:"transaction_id" json:"transaction_id"`
	PayerEmail    string    `bson:"payer_email" json:"payer_email"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	PaidAt        time.Time `bson:"paid_at" json:"paid_at"`
}

type Loan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LoanID    string             `bson:"loan_id" json:"loan_id"`
	Email     string             `bson:"email" json:"email"`
	Borrower  string             `bson:"borrower" json:"borrower"`
	Title     string             `bson:"title" json:"title"`
	Amount    float64            `bson:"amount" json:"amount"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Status    Status             `bson:"status" json:"status"`
	FeeStatus FeeStatus          `bson:"fee_status" json:"fee_status"`
	AppliedAt time.Time          `bson:"applied_at" json:"applied_at"`
	DecidedAt *time.Time         `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	Payment   *Payment           `bson:"payment,omitempty" json:"payment,omitempty"`
}
