package payment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionCompleted SessionStatus = "completed"
)

// Session mirrors a provider-hosted checkout session for audit purposes.
// The authoritative payment state lives on the loan document.
type Session struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SessionID   string             `bson:"session_id"`
	LoanID      string             `bson:"loan_id"`
	Email       string             `bson:"email"`
	AmountCents int64              `bson:"amount_cents"`
	Currency    string             `bson:"currency"`
	Status      SessionStatus      `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty"`
}

// CheckoutParams is what the backend asks the provider to host.
type CheckoutParams struct {
	LoanID      string
	LoanTitle   string
	Email       string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the provider's answer: an opaque session id plus
// the hosted payment page the client is redirected to.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// CompletedEvent carries the fields extracted from a verified
// "checkout session completed" provider event. Amounts are in the
// provider's minor units as reported by the provider, never a locally
// configured constant.
type CompletedEvent struct {
	SessionID     string
	TransactionID string
	LoanID        string
	LoanTitle     string
	PayerEmail    string
	AmountTotal   int64
	Currency      string
}
