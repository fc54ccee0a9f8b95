package loan

import (
	"context"
	"time"
)

type ListFilter struct {
	Email  string
	Status Status
	Limit  int64
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	List(ctx context.Context, f ListFilter) ([]Loan, error)
	// UpdateStatus is a compare-and-set: it only matches when the loan is
	// still in `from`, and reports how many documents matched.
	UpdateStatus(ctx context.Context, loanID string, from, to Status, decidedAt time.Time) (int64, error)
	// SetPaymentIfAbsent marks the fee paid and embeds the payment record
	// in one update, matching only while no payment is recorded yet.
	SetPaymentIfAbsent(ctx context.Context, loanID string, p *Payment) (int64, error)
	// Delete removes the loan only while it is in `onlyStatus`.
	Delete(ctx context.Context, loanID string, onlyStatus Status) (int64, error)
}
