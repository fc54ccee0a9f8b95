package paymentmock

import (
	"context"

	domain "loanflow-backend/internal/domain/payment"
)

// Provider is a function-backed mock of domain.Provider.
type Provider struct {
	CreateCheckoutSessionFn func(ctx context.Context, p domain.CheckoutParams) (*domain.CheckoutSession, error)
}

func (m *Provider) CreateCheckoutSession(ctx context.Context, p domain.CheckoutParams) (*domain.CheckoutSession, error) {
	if m.CreateCheckoutSessionFn != nil {
		return m.CreateCheckoutSessionFn(ctx, p)
	}
	return &domain.CheckoutSession{SessionID: "cs_test_mock", URL: "https://checkout.example/cs_test_mock"}, nil
}

// SessionRepo is a function-backed mock of domain.SessionRepository.
type SessionRepo struct {
	InsertFn        func(ctx context.Context, s *domain.Session) error
	MarkCompletedFn func(ctx context.Context, sessionID string) error
}

func (m *SessionRepo) Insert(ctx context.Context, s *domain.Session) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, s)
	}
	return nil
}

func (m *SessionRepo) MarkCompleted(ctx context.Context, sessionID string) error {
	if m.MarkCompletedFn != nil {
		return m.MarkCompletedFn(ctx, sessionID)
	}
	return nil
}
