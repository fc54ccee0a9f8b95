package payment

import "context"

// Provider creates hosted checkout sessions with the external payment
// service. Implemented by the stripe adapter.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
}

// SessionRepository persists the audit mirror of checkout sessions.
type SessionRepository interface {
	Insert(ctx context.Context, s *Session) error
	MarkCompleted(ctx context.Context, sessionID string) error
}
