package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gentlyventures/harboragent/internal/config"
)

type PostmarkClient interface {
	SendEmail(ctx context.Context, email Email) error
}

type Email struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	HtmlBody      string `json:"HtmlBody,omitempty"`
	TextBody      string `json:"TextBody,omitempty"`
	MessageStream string `json:"MessageStream"`
}

// APIError is returned for non-2xx Postmark responses. Body is kept for
// server-side logs only.
type APIError struct {
	Service    string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Service, e.StatusCode, e.Body)
}

type postmarkClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	serverToken string
}

func NewPostmarkClient(postmarkCfg *config.Postmark) PostmarkClient {
	return &postmarkClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  strings.TrimRight(postmarkCfg.BaseApiURL, "/"),
		serverToken: postmarkCfg.ServerToken,
	}
}

func (c *postmarkClientImpl) SendEmail(ctx context.Context, email Email) error {
	if c.serverToken == "" {
		return errors.New("postmark server token not configured")
	}
	if email.MessageStream == "" {
		email.MessageStream = "outbound"
	}

	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{
			Service:    "postmark",
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(b),
		}
	}
	return nil
}
