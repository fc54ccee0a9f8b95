package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	loanDomain "loanflow-backend/internal/domain/loan"
	domain "loanflow-backend/internal/domain/payment"
	"loanflow-backend/internal/testutil/loanmock"
	"loanflow-backend/internal/testutil/paymentmock"
)

const lid = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func testConfig() Config {
	return Config{FeeAmountCents: 1000, FeeCurrency: "usd", ClientBaseURL: "https://app.example"}
}

func pendingLoan() *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:    lid,
		Email:     "a@b.com",
		Title:     "Car Loan",
		Amount:    5000,
		Status:    loanDomain.StatusPending,
		FeeStatus: loanDomain.FeeUnpaid,
	}
}

func TestStartCheckout_Success(t *testing.T) {
	var gotParams domain.CheckoutParams
	var audit *domain.Session
	uc := NewUsecase(
		&loanmock.Repo{
			GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
				return pendingLoan(), nil
			},
		},
		&paymentmock.SessionRepo{
			InsertFn: func(ctx context.Context, s *domain.Session) error {
				audit = s
				return nil
			},
		},
		&paymentmock.Provider{
			CreateCheckoutSessionFn: func(ctx context.Context, p domain.CheckoutParams) (*domain.CheckoutSession, error) {
				gotParams = p
				return &domain.CheckoutSession{SessionID: "cs_123", URL: "https://pay.example/cs_123"}, nil
			},
		},
		testConfig(),
	)

	dto, err := uc.StartCheckout(context.Background(), StartCheckoutInput{LoanID: lid, Email: "A@B.com "})
	if err != nil {
		t.Fatalf("StartCheckout err: %v", err)
	}
	if dto.URL != "https://pay.example/cs_123" {
		t.Fatalf("url = %s", dto.URL)
	}
	if gotParams.LoanID != lid || gotParams.LoanTitle != "Car Loan" {
		t.Fatalf("params = %+v", gotParams)
	}
	if gotParams.AmountCents != 1000 || gotParams.Currency != "usd" {
		t.Fatalf("fee = %d %s", gotParams.AmountCents, gotParams.Currency)
	}
	if !strings.Contains(gotParams.SuccessURL, "loanId="+lid) {
		t.Fatalf("success url = %s", gotParams.SuccessURL)
	}
	if gotParams.Email != "a@b.com" {
		t.Fatalf("email not normalized: %q", gotParams.Email)
	}
	if audit == nil || audit.SessionID != "cs_123" || audit.Status != domain.SessionCreated {
		t.Fatalf("audit session = %+v", audit)
	}
}

func TestStartCheckout_MissingFields(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &paymentmock.SessionRepo{}, &paymentmock.Provider{
		CreateCheckoutSessionFn: func(ctx context.Context, p domain.CheckoutParams) (*domain.CheckoutSession, error) {
			t.Fatal("provider must not be called")
			return nil, nil
		},
	}, testConfig())

	cases := []StartCheckoutInput{
		{LoanID: "", Email: "a@b.com"},
		{LoanID: lid, Email: ""},
		{LoanID: "not-hex", Email: "a@b.com"},
	}
	for _, in := range cases {
		if _, err := uc.StartCheckout(context.Background(), in); !errors.Is(err, loanDomain.ErrInvalidInput) {
			t.Fatalf("input %+v: err=%v, want ErrInvalidInput", in, err)
		}
	}
}

func TestStartCheckout_UnknownLoan(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &paymentmock.SessionRepo{}, &paymentmock.Provider{}, testConfig())
	if _, err := uc.StartCheckout(context.Background(), StartCheckoutInput{LoanID: lid, Email: "a@b.com"}); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestStartCheckout_ProviderFailure(t *testing.T) {
	boom := errors.New("provider down")
	uc := NewUsecase(
		&loanmock.Repo{
			GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
				return pendingLoan(), nil
			},
		},
		&paymentmock.SessionRepo{
			InsertFn: func(ctx context.Context, s *domain.Session) error {
				t.Fatal("audit insert must not happen when the provider fails")
				return nil
			},
		},
		&paymentmock.Provider{
			CreateCheckoutSessionFn: func(ctx context.Context, p domain.CheckoutParams) (*domain.CheckoutSession, error) {
				return nil, boom
			},
		},
		testConfig(),
	)
	if _, err := uc.StartCheckout(context.Background(), StartCheckoutInput{LoanID: lid, Email: "a@b.com"}); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want provider error", err)
	}
}

func TestStartCheckout_AuditInsertFailureIsIgnored(t *testing.T) {
	uc := NewUsecase(
		&loanmock.Repo{
			GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
				return pendingLoan(), nil
			},
		},
		&paymentmock.SessionRepo{
			InsertFn: func(ctx context.Context, s *domain.Session) error {
				return errors.New("audit store down")
			},
		},
		&paymentmock.Provider{},
		testConfig(),
	)
	if _, err := uc.StartCheckout(context.Background(), StartCheckoutInput{LoanID: lid, Email: "a@b.com"}); err != nil {
		t.Fatalf("audit failure must not fail checkout: %v", err)
	}
}

func completedEvent() domain.CompletedEvent {
	return domain.CompletedEvent{
		SessionID:     "cs_123",
		TransactionID: "pi_456",
		LoanID:        lid,
		LoanTitle:     "Car Loan",
		PayerEmail:    "a@b.com",
		AmountTotal:   1000,
		Currency:      "usd",
	}
}

func TestConfirmCompleted_FirstDelivery(t *testing.T) {
	var applied *loanDomain.Payment
	marked := false
	uc := NewUsecase(
		&loanmock.Repo{
			SetPaymentIfAbsentFn: func(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
				if loanID != lid {
					t.Fatalf("loan id = %s", loanID)
				}
				applied = p
				return 1, nil
			},
		},
		&paymentmock.SessionRepo{
			MarkCompletedFn: func(ctx context.Context, sessionID string) error {
				marked = sessionID == "cs_123"
				return nil
			},
		},
		&paymentmock.Provider{},
		testConfig(),
	)

	if err := uc.ConfirmCompleted(context.Background(), completedEvent()); err != nil {
		t.Fatalf("ConfirmCompleted err: %v", err)
	}
	if applied == nil || applied.SessionID != "cs_123" || applied.TransactionID != "pi_456" {
		t.Fatalf("payment = %+v", applied)
	}
	// The provider-reported charge is authoritative, converted from minor units.
	if applied.Amount != 10 {
		t.Fatalf("amount = %v, want 10", applied.Amount)
	}
	if !marked {
		t.Fatal("audit session not marked completed")
	}
}

func TestConfirmCompleted_Redelivery(t *testing.T) {
	l := pendingLoan()
	l.FeeStatus = loanDomain.FeePaid
	l.Payment = &loanDomain.Payment{SessionID: "cs_123"}

	calls := 0
	uc := NewUsecase(
		&loanmock.Repo{
			SetPaymentIfAbsentFn: func(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
				calls++
				return 0, nil
			},
			GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
				return l, nil
			},
		},
		&paymentmock.SessionRepo{},
		&paymentmock.Provider{},
		testConfig(),
	)

	if err := uc.ConfirmCompleted(context.Background(), completedEvent()); err != nil {
		t.Fatalf("redelivery must be acknowledged: %v", err)
	}
	if calls != 1 {
		t.Fatalf("SetPaymentIfAbsent calls = %d", calls)
	}
}

func TestConfirmCompleted_PaidViaOtherSession(t *testing.T) {
	l := pendingLoan()
	l.FeeStatus = loanDomain.FeePaid
	l.Payment = &loanDomain.Payment{SessionID: "cs_other"}

	uc := NewUsecase(
		&loanmock.Repo{
			SetPaymentIfAbsentFn: func(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
				return 0, nil
			},
			GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
				return l, nil
			},
		},
		&paymentmock.SessionRepo{},
		&paymentmock.Provider{},
		testConfig(),
	)

	// Existing payment stays untouched; the conflicting event is acknowledged.
	if err := uc.ConfirmCompleted(context.Background(), completedEvent()); err != nil {
		t.Fatalf("conflicting session must be acknowledged: %v", err)
	}
	if l.Payment.SessionID != "cs_other" {
		t.Fatalf("payment overwritten: %+v", l.Payment)
	}
}

func TestConfirmCompleted_UnknownLoan(t *testing.T) {
	uc := NewUsecase(
		&loanmock.Repo{
			SetPaymentIfAbsentFn: func(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
				return 0, nil
			},
			GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
				return nil, loanDomain.ErrNotFound
			},
		},
		&paymentmock.SessionRepo{},
		&paymentmock.Provider{},
		testConfig(),
	)
	if err := uc.ConfirmCompleted(context.Background(), completedEvent()); err != nil {
		t.Fatalf("unknown loan must be acknowledged: %v", err)
	}
}

func TestConfirmCompleted_BadLoanID(t *testing.T) {
	uc := NewUsecase(
		&loanmock.Repo{
			SetPaymentIfAbsentFn: func(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
				t.Fatal("store must not be touched for a bad loan id")
				return 0, nil
			},
		},
		&paymentmock.SessionRepo{},
		&paymentmock.Provider{},
		testConfig(),
	)
	ev := completedEvent()
	ev.LoanID = "not-a-loan-id"
	if err := uc.ConfirmCompleted(context.Background(), ev); err != nil {
		t.Fatalf("bad metadata must be acknowledged: %v", err)
	}
}

func TestConfirmCompleted_StoreFailurePropagates(t *testing.T) {
	boom := errors.New("store down")
	uc := NewUsecase(
		&loanmock.Repo{
			SetPaymentIfAbsentFn: func(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
				return 0, boom
			},
		},
		&paymentmock.SessionRepo{},
		&paymentmock.Provider{},
		testConfig(),
	)
	if err := uc.ConfirmCompleted(context.Background(), completedEvent()); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want store error so the provider retries", err)
	}
}
