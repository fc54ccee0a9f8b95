package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loanflow-backend/internal/domain/loan"
	"loanflow-backend/pkg/id"
)

type Usecase struct{ repo loan.Repository }

func NewUsecase(r loan.Repository) *Usecase { return &Usecase{repo: r} }

type CreateLoanInput struct {
	Email    string  `json:"email"`
	Borrower string  `json:"borrower"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

type ListLoansInput struct {
	Email  string
	Status string
	Limit  int64
}

type LoanDTO struct {
	LoanID    string        `json:"loan_id"`
	Email     string        `json:"email"`
	Borrower  string        `json:"borrower"`
	Title     string        `json:"title"`
	Amount    float64       `json:"amount"`
	Category  string        `json:"category,omitempty"`
	Status    string        `json:"status"`
	FeeStatus string        `json:"fee_status"`
	AppliedAt time.Time     `json:"applied_at"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`
	Payment   *loan.Payment `json:"payment,omitempty"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:    l.LoanID,
		Email:     l.Email,
		Borrower:  l.Borrower,
		Title:     l.Title,
		Amount:    l.Amount,
		Category:  l.Category,
		Status:    string(l.Status),
		FeeStatus: string(l.FeeStatus),
		AppliedAt: l.AppliedAt,
		DecidedAt: l.DecidedAt,
		Payment:   l.Payment,
	}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Title == "" || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: email, title and a positive amount are required", loan.ErrInvalidInput)
	}

	l := &loan.Loan{
		LoanID:    id.NewID32(),
		Email:     in.Email,
		Borrower:  strings.TrimSpace(in.Borrower),
		Title:     strings.TrimSpace(in.Title),
		Amount:    in.Amount,
		Category:  strings.TrimSpace(in.Category),
		Status:    loan.StatusPending,
		FeeStatus: loan.FeeUnpaid,
		AppliedAt: time.Now().UTC(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, in ListLoansInput) ([]LoanDTO, error) {
	f := loan.ListFilter{Email: normalizeEmail(in.Email), Limit: in.Limit}
	if in.Status != "" {
		st, ok := loan.ParseStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", loan.ErrInvalidInput, in.Status)
		}
		f.Status = st
	}
	ls, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// Transition moves a pending loan to Approved, Rejected or Cancelled.
// The repository match on the current status makes the check-then-set
// atomic; a matched count of zero means either the loan is gone or it
// already left Pending.
func (u *Usecase) Transition(ctx context.Context, loanID, target string) (*LoanDTO, error) {
	st, ok := loan.ParseStatus(target)
	if !ok || st == loan.StatusPending {
		return nil, fmt.Errorf("%w: cannot transition to %q", loan.ErrInvalidTransition, target)
	}

	matched, err := u.repo.UpdateStatus(ctx, loanID, loan.StatusPending, st, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		if _, err := u.repo.GetByLoanID(ctx, loanID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: only pending loans can be decided", loan.ErrInvalidTransition)
	}
	return u.Get(ctx, loanID)
}

// Delete removes a loan while it is still Pending.
func (u *Usecase) Delete(ctx context.Context, loanID string) error {
	deleted, err := u.repo.Delete(ctx, loanID, loan.StatusPending)
	if err != nil {
		return err
	}
	if deleted == 0 {
		if _, err := u.repo.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		return fmt.Errorf("%w: only pending loans can be deleted", loan.ErrNotPending)
	}
	return nil
}
