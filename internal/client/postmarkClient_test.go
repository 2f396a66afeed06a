package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gentlyventures/harboragent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostmarkSendEmail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "pm-token", r.Header.Get("X-Postmark-Server-Token"))

		var got Email
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "buyer@example.com", got.To)
		assert.Equal(t, "outbound", got.MessageStream)

		_, _ = w.Write([]byte(`{"ErrorCode":0,"Message":"OK"}`))
	}))
	defer ts.Close()

	c := NewPostmarkClient(&config.Postmark{BaseApiURL: ts.URL, ServerToken: "pm-token"})
	err := c.SendEmail(context.Background(), Email{
		From:    "Harbor Agent <hello@example.com>",
		To:      "buyer@example.com",
		Subject: "hi",
	})
	assert.NoError(t, err)
}

func TestPostmarkSendEmailRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
	}))
	defer ts.Close()

	c := NewPostmarkClient(&config.Postmark{BaseApiURL: ts.URL, ServerToken: "pm-token"})
	err := c.SendEmail(context.Background(), Email{To: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestPostmarkSendEmailWithoutToken(t *testing.T) {
	c := NewPostmarkClient(&config.Postmark{BaseApiURL: "http://127.0.0.1:0"})
	assert.Error(t, c.SendEmail(context.Background(), Email{To: "buyer@example.com"}))
}
