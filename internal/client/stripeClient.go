package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gentlyventures/harboragent/internal/config"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripeClient interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type CreateCheckoutSessionParams struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	CouponCode string
}

type stripeClientImpl struct {
	sessions session.Client
}

func NewStripeClient(stripeCfg *config.Stripe, log zerolog.Logger) StripeClient {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL: stripe.String(strings.TrimRight(stripeCfg.BaseApiURL, "/")),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		LeveledLogger:     &stripeLogger{log: log.With().Str("component", "stripe").Logger()},
		MaxNetworkRetries: stripe.Int64(stripeCfg.MaxNetworkRetries),
	})

	return &stripeClientImpl{
		sessions: session.Client{B: backend, Key: stripeCfg.SecretKey},
	}
}

func (c *stripeClientImpl) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := c.sessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return s, nil
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, p CreateCheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		AllowPromotionCodes: stripe.Bool(true),
		PaymentMethodTypes:  stripe.StringSlice([]string{"card"}),
		SuccessURL:          stripe.String(p.SuccessURL),
		CancelURL:           stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	if p.CouponCode != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(p.CouponCode)},
		}
	}
	params.Context = ctx

	s, err := c.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return s, nil
}

// stripeLogger routes stripe-go's leveled logging into zerolog. Response
// bodies are logged at debug by the library, so they go to trace here.
type stripeLogger struct {
	log zerolog.Logger
}

func (l *stripeLogger) Debugf(format string, v ...interface{}) { l.log.Trace().Msgf(format, v...) }
func (l *stripeLogger) Infof(format string, v ...interface{})  { l.log.Debug().Msgf(format, v...) }
func (l *stripeLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l *stripeLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
