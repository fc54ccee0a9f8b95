package checkout

import (
	"context"

	paymentDomain "loanflow-backend/internal/domain/payment"

	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

// Client wraps the Stripe SDK behind the domain Provider interface.
// The API handle is constructed once at startup and injected; no
// package-level key.
type Client struct{ api *client.API }

func NewClient(secretKey string) *Client {
	return &Client{api: client.New(secretKey, nil)}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p paymentDomain.CheckoutParams) (*paymentDomain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(p.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(p.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Loan Fee - " + p.LoanTitle),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	// Echoed back unmodified on the completion event; this is how the
	// loan id crosses the asynchronous boundary.
	params.AddMetadata("loan_id", p.LoanID)
	params.AddMetadata("loan_title", p.LoanTitle)

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &paymentDomain.CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}
