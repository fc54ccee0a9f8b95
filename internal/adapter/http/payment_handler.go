package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	paymentDomain "loanflow-backend/internal/domain/payment"
	payment "loanflow-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Stripe caps event payloads well under this; anything larger is junk.
const maxWebhookBody = int64(65536)

type PaymentHandler struct {
	uc            *payment.Usecase
	webhookSecret string
}

func NewPaymentHandler(uc *payment.Usecase, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{uc: uc, webhookSecret: webhookSecret}
}

type createCheckoutReq struct {
	LoanID string `json:"loan_id" validate:"required,hex32"`
	Email  string `json:"email"   validate:"required,email"`
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	var req createCheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.StartCheckout(c.Request().Context(), payment.StartCheckoutInput{
		LoanID: req.LoanID,
		Email:  req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Webhook receives provider-signed events. Signature verification needs
// the body exactly as sent, so this route must never sit behind a
// body-parsing middleware.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response().Writer, req.Body, maxWebhookBody)
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}

	event, err := webhook.ConstructEvent(payload, req.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
	}

	if event.Type != "checkout.session.completed" {
		// Many event kinds may be subscribed; only completion matters here.
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("webhook: cannot parse checkout session from event %s: %v", event.ID, err)
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	ev := paymentDomain.CompletedEvent{
		SessionID:   session.ID,
		LoanID:      session.Metadata["loan_id"],
		LoanTitle:   session.Metadata["loan_title"],
		PayerEmail:  session.CustomerEmail,
		AmountTotal: session.AmountTotal,
		Currency:    string(session.Currency),
	}
	if ev.PayerEmail == "" && session.CustomerDetails != nil {
		ev.PayerEmail = session.CustomerDetails.Email
	}
	if session.PaymentIntent != nil {
		ev.TransactionID = session.PaymentIntent.ID
	}

	if err := h.uc.ConfirmCompleted(req.Context(), ev); err != nil {
		// A failed store write after a verified event must surface as 5xx
		// so the provider redelivers.
		log.Printf("webhook: applying session %s failed: %v", session.ID, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "store unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
