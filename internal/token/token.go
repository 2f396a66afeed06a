// Package token issues and verifies signed download tokens.
//
// A token is base64url(json payload) + "." + base64url(HMAC-SHA256(json payload)).
// Tokens carry everything needed to authorize a download; nothing is stored
// server side and a token stays usable until it expires.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

const (
	ReasonFormat    = "Invalid token format"
	ReasonExpired   = "Token expired"
	ReasonSignature = "Invalid signature"
)

var ErrEmptySession = errors.New("token: session id is required")

type Payload struct {
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
	Expires   int64  `json:"expires"` // unix millis
	Nonce     string `json:"nonce"`
}

type Result struct {
	Valid   bool
	Payload *Payload
	Error   string
}

type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSigner(key string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		key: []byte(key),
		ttl: ttl,
		now: time.Now,
	}
}

func (s *Signer) Issue(sessionID, email string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySession
	}

	nonce, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	raw, err := json.Marshal(Payload{
		SessionID: sessionID,
		Email:     email,
		Expires:   s.now().Add(s.ttl).UnixMilli(),
		Nonce:     nonce.String(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}

	return encode(raw) + "." + encode(s.sign(raw)), nil
}

// Verify never returns an error; a bad token is reported through Result.
// Expiry is checked before the signature, so a stale link always reads as
// expired.
func (s *Signer) Verify(tok string) Result {
	payloadPart, sigPart, ok := strings.Cut(tok, ".")
	if !ok || payloadPart == "" || sigPart == "" {
		return invalid(ReasonFormat)
	}

	raw, err := decode(payloadPart)
	if err != nil {
		return invalid(ReasonFormat)
	}
	sig, err := decode(sigPart)
	if err != nil {
		return invalid(ReasonFormat)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return invalid(ReasonFormat)
	}

	if s.now().UnixMilli() > p.Expires {
		return invalid(ReasonExpired)
	}

	if !hmac.Equal(sig, s.sign(raw)) {
		return invalid(ReasonSignature)
	}

	return Result{Valid: true, Payload: &p}
}

func (s *Signer) sign(raw []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(raw)
	return mac.Sum(nil)
}

func invalid(reason string) Result {
	return Result{Error: reason}
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	// strict: non-zero trailing bits would let two strings decode alike
	return base64.RawURLEncoding.Strict().DecodeString(strings.TrimRight(s, "="))
}
