package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gentlyventures/harboragent/internal/client"
	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/gentlyventures/harboragent/internal/model"
	"github.com/gentlyventures/harboragent/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid stripe signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader, origin string) error
}

type webhookServiceImpl struct {
	webhookSecret    string
	tokens           TokenIssuer
	linkTTL          time.Duration
	postmarkClient   client.PostmarkClient
	webhookEventRepo repository.WebhookEventRepository
	mail             config.Postmark
	log              zerolog.Logger
}

func NewWebhookService(
	webhookSecret string,
	tokens TokenIssuer,
	linkTTL time.Duration,
	postmarkClient client.PostmarkClient,
	webhookEventRepo repository.WebhookEventRepository,
	mail config.Postmark,
	log zerolog.Logger,
) WebhookService {
	return &webhookServiceImpl{
		webhookSecret:    webhookSecret,
		tokens:           tokens,
		linkTTL:          linkTTL,
		postmarkClient:   postmarkClient,
		webhookEventRepo: webhookEventRepo,
		mail:             mail,
		log:              log,
	}
}

// HandleWebhook returns ErrInvalidSignature or ErrInvalidPayload for
// requests Stripe should not retry as-is. Email failures are logged only.
func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signatureHeader, origin string) error {
	if s.webhookSecret != "" {
		if err := webhook.ValidatePayload(payload, signatureHeader, s.webhookSecret); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	} else {
		s.log.Debug().Msg("no webhook secret, signature not verified")
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	log := s.log.With().Str("event_id", event.ID).Str("type", string(event.Type)).Logger()

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		log.Debug().Msg("ignoring webhook event")
		return nil
	}

	if s.alreadyProcessed(ctx, log, event.ID) {
		log.Info().Msg("duplicate webhook event")
		return nil
	}

	if event.Data == nil {
		return fmt.Errorf("%w: event has no data", ErrInvalidPayload)
	}
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("%w: decode checkout session: %v", ErrInvalidPayload, err)
	}
	log = log.With().Str("session_id", session.ID).Logger()

	if !model.SessionPaid(&session) {
		log.Info().
			Str("status", string(session.Status)).
			Str("payment_status", string(session.PaymentStatus)).
			Msg("checkout session not paid, no email sent")
		return nil
	}

	email := model.SessionEmail(&session)
	if email == "" {
		log.Warn().Msg("checkout session has no customer email")
		s.markProcessed(ctx, log, &event, session.ID)
		return nil
	}

	data := downloadEmailData{
		Amount: formatAmount(session.AmountTotal, string(session.Currency)),
	}
	tok, err := s.tokens.Issue(session.ID, email)
	if err != nil {
		log.Error().Err(err).Msg("issue download token, emailing unsigned link")
		data.DownloadURL = UnsignedDownloadURL(origin, session.ID)
	} else {
		data.DownloadURL = SignedDownloadURL(origin, tok)
		data.Personalized = true
		data.ExpiresIn = humanizeTTL(s.linkTTL)
	}

	s.sendDownloadEmail(ctx, log, email, data)
	s.markProcessed(ctx, log, &event, session.ID)
	return nil
}

func (s *webhookServiceImpl) sendDownloadEmail(ctx context.Context, log zerolog.Logger, to string, data downloadEmailData) {
	html, text, err := renderDownloadEmail(data)
	if err != nil {
		log.Error().Err(err).Msg("render download email")
		return
	}

	err = s.postmarkClient.SendEmail(ctx, client.Email{
		From:          fmt.Sprintf("%s <%s>", s.mail.FromName, s.mail.FromEmail),
		To:            to,
		Subject:       downloadEmailSubject,
		HtmlBody:      html,
		TextBody:      text,
		MessageStream: "outbound",
	})
	if err != nil {
		// the buyer can still download from the success page; failing here
		// would only make Stripe retry the webhook
		log.Error().Err(err).Msg("send download email")
		return
	}
	log.Info().Msg("download email sent")
}

func (s *webhookServiceImpl) alreadyProcessed(ctx context.Context, log zerolog.Logger, eventID string) bool {
	if eventID == "" {
		return false
	}
	exists, err := s.webhookEventRepo.Exists(ctx, eventID)
	if err != nil {
		log.Warn().Err(err).Msg("check webhook event")
		return false
	}
	return exists
}

func (s *webhookServiceImpl) markProcessed(ctx context.Context, log zerolog.Logger, event *stripe.Event, sessionID string) {
	if event.ID == "" {
		return
	}
	if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, string(event.Type), sessionID); err != nil {
		log.Warn().Err(err).Msg("mark webhook event processed")
	}
}
