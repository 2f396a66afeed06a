package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gentlyventures/harboragent/internal/archive"
	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/gentlyventures/harboragent/internal/license"
	"github.com/gentlyventures/harboragent/internal/model"
	"github.com/gentlyventures/harboragent/internal/repository"
	"github.com/gentlyventures/harboragent/internal/token"

	"github.com/rs/zerolog"
)

// placeholder used when Stripe has no address for the buyer
const unknownEmail = "customer"

var ErrSessionInvalid = errors.New("checkout session is not complete and paid")

// TokenError reports why a download token was rejected.
type TokenError struct {
	Reason string
}

func (e *TokenError) Error() string {
	return e.Reason
}

type TokenIssuer interface {
	Issue(sessionID, email string) (string, error)
	Verify(tok string) token.Result
}

// Delivery is either a personalized archive or, when building it failed, a
// URL of the unmodified base archive.
type Delivery struct {
	Archive     []byte
	FileName    string
	FallbackURL string
}

type DownloadService interface {
	StartDownload(ctx context.Context, sessionID, origin string) (string, error)
	SignedDownload(ctx context.Context, tok string) (*Delivery, error)
}

type downloadServiceImpl struct {
	checkoutService CheckoutService
	tokens          TokenIssuer
	builder         archive.Builder
	downloadRepo    repository.DownloadRepository
	cfg             config.Download
	log             zerolog.Logger
}

func NewDownloadService(
	checkoutService CheckoutService,
	tokens TokenIssuer,
	builder archive.Builder,
	downloadRepo repository.DownloadRepository,
	cfg config.Download,
	log zerolog.Logger,
) DownloadService {
	return &downloadServiceImpl{
		checkoutService: checkoutService,
		tokens:          tokens,
		builder:         builder,
		downloadRepo:    downloadRepo,
		cfg:             cfg,
		log:             log,
	}
}

// StartDownload checks the session and returns where to send the buyer: a
// signed download link, or the origin archive if no token could be minted.
func (s *downloadServiceImpl) StartDownload(ctx context.Context, sessionID, origin string) (string, error) {
	check := s.checkoutService.VerifySession(ctx, sessionID)
	if !check.Valid {
		return "", ErrSessionInvalid
	}

	email := model.SessionEmail(check.Session)
	if email == "" {
		email = unknownEmail
	}

	tok, err := s.tokens.Issue(sessionID, email)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("issue download token, falling back to unsigned link")
		return withQuery(s.cfg.OriginURL, "session_id", sessionID), nil
	}

	return SignedDownloadURL(origin, tok), nil
}

func (s *downloadServiceImpl) SignedDownload(ctx context.Context, tok string) (*Delivery, error) {
	res := s.tokens.Verify(tok)
	if !res.Valid || res.Payload == nil {
		reason := res.Error
		if reason == "" {
			reason = "Invalid or expired token"
		}
		return nil, &TokenError{Reason: reason}
	}
	payload := res.Payload

	// the token may predate a refund
	check := s.checkoutService.VerifySession(ctx, payload.SessionID)
	if !check.Valid {
		return nil, ErrSessionInvalid
	}
	session := check.Session

	info := license.Info{
		Email:        payload.Email,
		Organization: model.SessionCustomerName(session),
		PurchaseDate: license.PurchaseDate(session.Created),
		SessionID:    payload.SessionID,
	}

	zipBytes, err := s.builder.Build(ctx, s.cfg.OriginURL, info)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", payload.SessionID).Msg("build personalized archive, redirecting to origin")
		return &Delivery{FallbackURL: s.cfg.OriginURL}, nil
	}

	if err := s.downloadRepo.Record(ctx, payload.SessionID, payload.Email); err != nil {
		s.log.Warn().Err(err).Str("session_id", payload.SessionID).Msg("record download")
	}

	return &Delivery{
		Archive:  zipBytes,
		FileName: ArchiveFileName(s.cfg.ArchivePrefix, payload.SessionID),
	}, nil
}

func ArchiveFileName(prefix, sessionID string) string {
	suffix := sessionID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return fmt.Sprintf("%s-%s.zip", prefix, suffix)
}

func SignedDownloadURL(origin, tok string) string {
	return origin + "/download-signed?token=" + url.QueryEscape(tok)
}

func UnsignedDownloadURL(origin, sessionID string) string {
	return origin + "/download?session_id=" + url.QueryEscape(sessionID)
}

func withQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL + "?" + key + "=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
