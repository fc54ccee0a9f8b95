package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"loanflow-backend/internal/domain/loan"
	"loanflow-backend/internal/domain/payment"
)

// storeTimeout caps every store call made while handling a webhook so a
// slow store cannot eat into the provider's delivery-retry budget.
const storeTimeout = 5 * time.Second

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type Config struct {
	FeeAmountCents int64
	FeeCurrency    string
	ClientBaseURL  string
}

type Usecase struct {
	loans    loan.Repository
	sessions payment.SessionRepository
	provider payment.Provider
	cfg      Config
}

func NewUsecase(loans loan.Repository, sessions payment.SessionRepository, provider payment.Provider, cfg Config) *Usecase {
	return &Usecase{loans: loans, sessions: sessions, provider: provider, cfg: cfg}
}

type StartCheckoutInput struct {
	LoanID string `json:"loan_id"`
	Email  string `json:"email"`
}

type CheckoutDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// StartCheckout asks the provider for a hosted payment page for the
// loan's processing fee. The loan id travels in session metadata and
// comes back on the completion event; nothing authoritative is written
// here.
func (u *Usecase) StartCheckout(ctx context.Context, in StartCheckoutInput) (*CheckoutDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.LoanID == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: loan_id and email are required", loan.ErrInvalidInput)
	}
	if !reHex32.MatchString(in.LoanID) {
		return nil, fmt.Errorf("%w: malformed loan_id", loan.ErrInvalidInput)
	}

	l, err := u.loans.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}

	cs, err := u.provider.CreateCheckoutSession(ctx, payment.CheckoutParams{
		LoanID:      l.LoanID,
		LoanTitle:   l.Title,
		Email:       in.Email,
		AmountCents: u.cfg.FeeAmountCents,
		Currency:    u.cfg.FeeCurrency,
		SuccessURL:  u.cfg.ClientBaseURL + "/payment-success?loanId=" + l.LoanID,
		CancelURL:   u.cfg.ClientBaseURL + "/myloans",
	})
	if err != nil {
		return nil, err
	}

	// Audit mirror only; a failed insert must not fail the checkout.
	if err := u.sessions.Insert(ctx, &payment.Session{
		SessionID:   cs.SessionID,
		LoanID:      l.LoanID,
		Email:       in.Email,
		AmountCents: u.cfg.FeeAmountCents,
		Currency:    u.cfg.FeeCurrency,
		Status:      payment.SessionCreated,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		log.Printf("payment: session audit insert failed for %s: %v", cs.SessionID, err)
	}

	return &CheckoutDTO{SessionID: cs.SessionID, URL: cs.URL}, nil
}

// ConfirmCompleted applies a verified completion event to the loan
// record. It returns an error only when the store write fails; every
// application-level problem (bad metadata, unknown loan, duplicate
// delivery) is logged and acknowledged so the provider stops
// redelivering.
func (u *Usecase) ConfirmCompleted(ctx context.Context, ev payment.CompletedEvent) error {
	if !reHex32.MatchString(ev.LoanID) {
		log.Printf("payment: completed session %s carries no usable loan id %q", ev.SessionID, ev.LoanID)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	p := &loan.Payment{
		SessionID:     ev.SessionID,
		TransactionID: ev.TransactionID,
		PayerEmail:    strings.ToLower(strings.TrimSpace(ev.PayerEmail)),
		Amount:        float64(ev.AmountTotal) / 100, // provider-reported charge, minor units
		Currency:      ev.Currency,
		PaidAt:        time.Now().UTC(),
	}

	matched, err := u.loans.SetPaymentIfAbsent(ctx, ev.LoanID, p)
	if err != nil {
		return err
	}
	if matched == 0 {
		l, err := u.loans.GetByLoanID(ctx, ev.LoanID)
		switch {
		case errors.Is(err, loan.ErrNotFound):
			log.Printf("payment: completed session %s references unknown loan %s", ev.SessionID, ev.LoanID)
			return nil
		case err != nil:
			return err
		case l.Payment != nil && l.Payment.SessionID == ev.SessionID:
			// Redelivery of an already-applied event.
			return nil
		default:
			log.Printf("payment: loan %s already paid via another session, ignoring %s", ev.LoanID, ev.SessionID)
			return nil
		}
	}

	if err := u.sessions.MarkCompleted(ctx, ev.SessionID); err != nil {
		log.Printf("payment: session audit update failed for %s: %v", ev.SessionID, err)
	}
	return nil
}
