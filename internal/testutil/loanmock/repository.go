package loanmock

import (
	"context"
	"time"

	domain "loanflow-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn             func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn        func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListFn               func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error)
	UpdateStatusFn       func(ctx context.Context, loanID string, from, to domain.Status, decidedAt time.Time) (int64, error)
	SetPaymentIfAbsentFn func(ctx context.Context, loanID string, p *domain.Payment) (int64, error)
	DeleteFn             func(ctx context.Context, loanID string, onlyStatus domain.Status) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) UpdateStatus(ctx context.Context, loanID string, from, to domain.Status, decidedAt time.Time) (int64, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, loanID, from, to, decidedAt)
	}
	return 0, nil
}

func (m *Repo) SetPaymentIfAbsent(ctx context.Context, loanID string, p *domain.Payment) (int64, error) {
	if m.SetPaymentIfAbsentFn != nil {
		return m.SetPaymentIfAbsentFn(ctx, loanID, p)
	}
	return 0, nil
}

func (m *Repo) Delete(ctx context.Context, loanID string, onlyStatus domain.Status) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, loanID, onlyStatus)
	}
	return 0, nil
}
