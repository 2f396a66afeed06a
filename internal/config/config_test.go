package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("DOWNLOAD_ORIGIN_URL", "https://files.example.com/pack.zip")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "https://api.stripe.com", cfg.Stripe.BaseApiURL)
	assert.Equal(t, "https://api.postmarkapp.com", cfg.Postmark.BaseApiURL)
	assert.Equal(t, 24*time.Hour, cfg.Download.TokenTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
	assert.Equal(t, 10.0, cfg.HTTP.RateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestSigningKeyFallback(t *testing.T) {
	cfg := &Config{Stripe: Stripe{SecretKey: "sk_test_123"}}
	assert.Equal(t, "sk_test_123", cfg.SigningKey())

	cfg.Download.SigningKey = "dedicated"
	assert.Equal(t, "dedicated", cfg.SigningKey())
}

func TestValidateMissing(t *testing.T) {
	cfg := &Config{Download: Download{TokenTTL: time.Hour}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "DOWNLOAD_ORIGIN_URL")
}
