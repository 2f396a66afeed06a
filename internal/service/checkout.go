package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gentlyventures/harboragent/internal/client"
	"github.com/gentlyventures/harboragent/internal/dto"
	"github.com/gentlyventures/harboragent/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
)

var ErrPriceRequired = errors.New("price id is required")

// SessionCheck is the outcome of a live Stripe lookup. Session is nil when
// the lookup itself failed.
type SessionCheck struct {
	Valid   bool
	Session *stripe.CheckoutSession
	Debug   map[string]any
}

type CheckoutService interface {
	VerifySession(ctx context.Context, sessionID string) *SessionCheck
	CreateCheckoutSession(ctx context.Context, req dto.CreateCheckoutSessionRequest, origin string) (*dto.CreateCheckoutSessionResponse, error)
}

type checkoutServiceImpl struct {
	stripeClient   client.StripeClient
	defaultPriceID string
	log            zerolog.Logger
}

func NewCheckoutService(stripeClient client.StripeClient, defaultPriceID string, log zerolog.Logger) CheckoutService {
	return &checkoutServiceImpl{
		stripeClient:   stripeClient,
		defaultPriceID: defaultPriceID,
		log:            log,
	}
}

// VerifySession never fails: upstream errors are reported as an invalid
// session so callers can treat them like an unpaid one.
func (s *checkoutServiceImpl) VerifySession(ctx context.Context, sessionID string) *SessionCheck {
	session, err := s.stripeClient.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode != 0 {
			s.log.Error().
				Int("status", stripeErr.HTTPStatusCode).
				Str("type", string(stripeErr.Type)).
				Str("message", stripeErr.Msg).
				Str("request_id", stripeErr.RequestID).
				Str("session_id", sessionID).
				Msg("stripe api error")
			return &SessionCheck{
				Debug: map[string]any{
					"error":      "Stripe API returned non-OK status",
					"status":     stripeErr.HTTPStatusCode,
					"statusText": http.StatusText(stripeErr.HTTPStatusCode),
				},
			}
		}

		s.log.Error().Err(err).Str("session_id", sessionID).Msg("verify stripe session")
		return &SessionCheck{
			Debug: map[string]any{
				"error":      "Stripe API request failed",
				"status":     http.StatusBadGateway,
				"statusText": http.StatusText(http.StatusBadGateway),
			},
		}
	}

	valid := model.SessionPaid(session)
	s.log.Info().
		Str("session_id", session.ID).
		Str("status", string(session.Status)).
		Str("payment_status", string(session.PaymentStatus)).
		Int64("amount_total", session.AmountTotal).
		Str("currency", string(session.Currency)).
		Bool("valid", valid).
		Msg("stripe session checked")

	return &SessionCheck{
		Valid:   valid,
		Session: session,
		Debug: map[string]any{
			"status":         string(session.Status),
			"payment_status": string(session.PaymentStatus),
			"amount_total":   session.AmountTotal,
			"check_passed":   valid,
		},
	}
}

func (s *checkoutServiceImpl) CreateCheckoutSession(ctx context.Context, req dto.CreateCheckoutSessionRequest, origin string) (*dto.CreateCheckoutSessionResponse, error) {
	priceID := req.PriceID
	if priceID == "" {
		priceID = s.defaultPriceID
	}
	if priceID == "" {
		return nil, ErrPriceRequired
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = origin + "/success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = origin + "/#pricing"
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, client.CreateCheckoutSessionParams{
		PriceID:    priceID,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		CouponCode: strings.TrimSpace(req.CouponCode),
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &dto.CreateCheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}
